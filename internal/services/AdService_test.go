package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal/models"
	"adlens/internal/store"
	"adlens/internal/structures"
	"adlens/internal/testutil"
)

type serviceFixture struct {
	svc     AdServiceInterface
	conf    *structures.Config
	cache   *testutil.MockCache
	metrics *testutil.MockMetrics
	invoker *testutil.MockInvoker
	store   *testutil.MockStore
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		conf:    &structures.Config{},
		cache:   testutil.NewMockCache(),
		metrics: testutil.NewMockMetrics(),
		invoker: &testutil.MockInvoker{},
		store:   testutil.NewMockStore(),
	}
	f.svc = NewAdService(f.conf, &testutil.MockLogger{}, f.cache, f.metrics, f.invoker, f.store)
	return f
}

func selection(keyword string) models.FilterSelection {
	return models.FilterSelection{
		CountryCode:    "US",
		Keyword:        keyword,
		CategoryParam:  "all",
		StatusParam:    "active",
		MatchModeParam: "keyword_unordered",
		Count:          10,
	}
}

func TestResolveToken_Precedence(t *testing.T) {
	f := newServiceFixture()
	f.conf.Scraper.Token = "from-config"
	t.Setenv("APIFY_TOKEN", "from-env")

	assert.Equal(t, "override", f.svc.ResolveToken(" override "))
	assert.Equal(t, "from-config", f.svc.ResolveToken(""))

	f.conf.Scraper.Token = ""
	assert.Equal(t, "from-env", f.svc.ResolveToken(""))

	t.Setenv("APIFY_TOKEN", "")
	assert.Equal(t, "", f.svc.ResolveToken("   "))
}

func TestFetch_MissingKeyword(t *testing.T) {
	f := newServiceFixture()
	_, _, err := f.svc.Fetch(context.Background(), selection("   "), "tok")
	assert.ErrorIs(t, err, ErrMissingKeyword)
	assert.Zero(t, f.invoker.Calls)
}

func TestFetch_CountBounds(t *testing.T) {
	f := newServiceFixture()

	sel := selection("coffee")
	sel.Count = models.MaxFetchCount + 1
	_, _, err := f.svc.Fetch(context.Background(), sel, "tok")
	assert.ErrorIs(t, err, ErrCountOutOfRange)

	sel.Count = -1
	_, _, err = f.svc.Fetch(context.Background(), sel, "tok")
	assert.ErrorIs(t, err, ErrCountOutOfRange)
}

func TestFetch_DefaultsCount(t *testing.T) {
	f := newServiceFixture()
	sel := selection("coffee")
	sel.Count = 0

	_, _, err := f.svc.Fetch(context.Background(), sel, "tok")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFetchCount, f.invoker.LastCount)
}

func TestFetch_InvokesAndCaches(t *testing.T) {
	f := newServiceFixture()
	f.invoker.Items = []models.RawRecord{{"ad_archive_id": "1"}}

	items, sourceURL, err := f.svc.Fetch(context.Background(), selection("coffee"), "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, sourceURL, "q=coffee")
	assert.Equal(t, sourceURL, f.invoker.LastSourceURL)
	assert.Equal(t, "tok", f.invoker.LastToken)
	assert.Equal(t, "active", f.invoker.LastActiveStatus)
	assert.Equal(t, 1, f.metrics.Scrapes["ok"])
	assert.Equal(t, 1, f.cache.Sets)

	// second identical fetch is served from cache
	items, _, err = f.svc.Fetch(context.Background(), selection("coffee"), "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, f.invoker.Calls)
}

func TestFetch_CacheKeyVariesByToken(t *testing.T) {
	f := newServiceFixture()
	f.invoker.Items = []models.RawRecord{{"ad_archive_id": "1"}}

	_, _, err := f.svc.Fetch(context.Background(), selection("coffee"), "token-a")
	require.NoError(t, err)
	_, _, err = f.svc.Fetch(context.Background(), selection("coffee"), "token-b")
	require.NoError(t, err)
	assert.Equal(t, 2, f.invoker.Calls)
}

func TestFetch_CacheKeyHidesToken(t *testing.T) {
	f := newServiceFixture()
	f.invoker.Items = []models.RawRecord{{"ad_archive_id": "1"}}

	_, _, err := f.svc.Fetch(context.Background(), selection("coffee"), "super-secret-token")
	require.NoError(t, err)
	for key := range f.cache.Data {
		assert.NotContains(t, key, "super-secret-token")
	}
}

func TestFetch_InvokerErrorPassesThrough(t *testing.T) {
	f := newServiceFixture()
	f.invoker.Err = errors.New("boom")

	_, sourceURL, err := f.svc.Fetch(context.Background(), selection("coffee"), "tok")
	require.Error(t, err)
	assert.NotEmpty(t, sourceURL)
	assert.Equal(t, 1, f.metrics.Scrapes["error"])
	assert.Zero(t, f.cache.Sets)
}

func TestFetch_CorruptedCacheEntryFallsThrough(t *testing.T) {
	f := newServiceFixture()
	f.invoker.Items = []models.RawRecord{{"ad_archive_id": "1"}}

	_, _, err := f.svc.Fetch(context.Background(), selection("coffee"), "tok")
	require.NoError(t, err)
	for key := range f.cache.Data {
		f.cache.Data[key] = []byte("{corrupted")
	}

	items, _, err := f.svc.Fetch(context.Background(), selection("coffee"), "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, f.invoker.Calls)
}

func TestCurate(t *testing.T) {
	f := newServiceFixture()
	curated := f.svc.Curate([]models.RawRecord{
		{"ad_archive_id": "1", "page_name": "Acme"},
		{},
	})
	require.Len(t, curated, 2)
	require.NotNil(t, curated[0].AdArchiveID)
	assert.Equal(t, "1", *curated[0].AdArchiveID)
	assert.Nil(t, curated[1].AdArchiveID)
}

func TestSave(t *testing.T) {
	f := newServiceFixture()
	raw := models.RawRecord{"ad_archive_id": "42", "page_name": "Acme"}
	require.NoError(t, f.svc.Save("team1", raw))

	require.Len(t, f.store.Inserted["team1"], 1)
	require.NotNil(t, f.store.Inserted["team1"][0].AdArchiveID)
	assert.Equal(t, "42", *f.store.Inserted["team1"][0].AdArchiveID)
	assert.Equal(t, raw, f.store.Raws["team1"][0])
	assert.Equal(t, 1, f.metrics.Saves["team1"])
}

func TestSave_StoreErrorPassesThrough(t *testing.T) {
	f := newServiceFixture()
	f.store.InsertErr = store.ErrInvalidCollection

	err := f.svc.Save("team9", models.RawRecord{})
	assert.ErrorIs(t, err, store.ErrInvalidCollection)
	assert.Zero(t, f.metrics.Saves["team9"])
}

func TestExportCurated(t *testing.T) {
	f := newServiceFixture()
	name := "Acme"
	active := true
	out, err := f.svc.ExportCurated([]models.CuratedRecord{
		{PageName: &name, IsActive: &active},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ad_archive_id,categories,"))
	assert.Contains(t, lines[1], "Acme")
	assert.Contains(t, lines[1], "true")
}

func TestExportCurated_EmptyStillHasHeader(t *testing.T) {
	f := newServiceFixture()
	out, err := f.svc.ExportCurated(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(exportHeader, ","), strings.TrimSpace(string(out)))
}

func TestExportRaw(t *testing.T) {
	f := newServiceFixture()
	out, err := f.svc.ExportRaw([]models.RawRecord{{"k": "v"}})
	require.NoError(t, err)

	var decoded []models.RawRecord
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "v", decoded[0]["k"])
	assert.Contains(t, string(out), "\n  ")
}
