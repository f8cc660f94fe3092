package testutil

import (
	"context"
	"sync"
	"time"

	"adlens/internal/models"
	"adlens/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any entry was recorded at the given level.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockCache implements providers.CacheProviderInterface over a plain map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
	Sets int
	Gets int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.Data[key] = value
}

// MockInvoker implements scrape.Invoker and records the last call.
type MockInvoker struct {
	mu sync.Mutex

	Items []models.RawRecord
	Err   error

	Calls            int
	LastToken        string
	LastSourceURL    string
	LastCount        int
	LastActiveStatus string
}

func (m *MockInvoker) Run(_ context.Context, token, sourceURL string, count int, activeStatus string) ([]models.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastToken = token
	m.LastSourceURL = sourceURL
	m.LastCount = count
	m.LastActiveStatus = activeStatus
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Items, nil
}

// MockStore implements store.StoreInterface in memory. Collection validity is
// the caller's concern; set InsertErr or ListErr to simulate failures.
type MockStore struct {
	mu sync.Mutex

	Inserted  map[string][]*models.CuratedRecord
	Raws      map[string][]models.RawRecord
	Saved     map[string][]*models.SavedRecord
	InsertErr error
	ListErr   error
	CountErr  error
	Closed    bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		Inserted: make(map[string][]*models.CuratedRecord),
		Raws:     make(map[string][]models.RawRecord),
		Saved:    make(map[string][]*models.SavedRecord),
	}
}

func (m *MockStore) EnsureSchema() error { return nil }

func (m *MockStore) Insert(collection string, rec *models.CuratedRecord, raw models.RawRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Inserted[collection] = append(m.Inserted[collection], rec)
	m.Raws[collection] = append(m.Raws[collection], raw)
	return nil
}

func (m *MockStore) List(collection string) ([]*models.SavedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Saved[collection], nil
}

func (m *MockStore) Count(collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.Saved[collection]), nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// MockAdService implements services.AdServiceInterface with canned results.
type MockAdService struct {
	mu sync.Mutex

	Token string

	FetchItems []models.RawRecord
	FetchURL   string
	FetchErr   error
	FetchCalls []FetchCall

	SaveErr   error
	SaveCalls []SaveCall

	SavedRows  []*models.SavedRecord
	SavedErr   error
	SavedCalls []string

	CuratedCSV []byte
	RawJSON    []byte
	ExportErr  error
}

type FetchCall struct {
	Selection     models.FilterSelection
	TokenOverride string
}

type SaveCall struct {
	Collection string
	Record     models.RawRecord
}

func (m *MockAdService) ResolveToken(override string) string {
	if override != "" {
		return override
	}
	return m.Token
}

func (m *MockAdService) Fetch(_ context.Context, sel models.FilterSelection, tokenOverride string) ([]models.RawRecord, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls = append(m.FetchCalls, FetchCall{Selection: sel, TokenOverride: tokenOverride})
	if m.FetchErr != nil {
		return nil, m.FetchURL, m.FetchErr
	}
	return m.FetchItems, m.FetchURL, nil
}

func (m *MockAdService) Curate(items []models.RawRecord) []models.CuratedRecord {
	out := make([]models.CuratedRecord, len(items))
	return out
}

func (m *MockAdService) Save(collection string, raw models.RawRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, SaveCall{Collection: collection, Record: raw})
	return m.SaveErr
}

func (m *MockAdService) Saved(collection string) ([]*models.SavedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavedCalls = append(m.SavedCalls, collection)
	if m.SavedErr != nil {
		return nil, m.SavedErr
	}
	return m.SavedRows, nil
}

func (m *MockAdService) ExportCurated([]models.CuratedRecord) ([]byte, error) {
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.CuratedCSV, nil
}

func (m *MockAdService) ExportRaw([]models.RawRecord) ([]byte, error) {
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.RawJSON, nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu sync.Mutex

	RequestsTotal  int
	CacheHits      int
	CacheMisses    int
	Scrapes        map[string]int
	Saves          map[string]int
	ScrapeDuration int
	ReqDuration    int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Scrapes: make(map[string]int), Saves: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsTotal++
}

func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReqDuration++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncScrapes(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scrapes[outcome]++
}

func (m *MockMetrics) ObserveScrapeDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScrapeDuration++
}

func (m *MockMetrics) IncSaves(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves[collection]++
}
