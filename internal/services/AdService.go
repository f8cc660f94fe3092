package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"adlens/internal/models"
	"adlens/internal/normalize"
	"adlens/internal/providers"
	"adlens/internal/query"
	"adlens/internal/scrape"
	"adlens/internal/store"
	"adlens/internal/structures"
)

// Validation errors, surfaced synchronously and never retried.
var (
	ErrMissingKeyword  = errors.New("missing search keyword")
	ErrCountOutOfRange = fmt.Errorf("count must be between %d and %d", models.MinFetchCount, models.MaxFetchCount)
)

type AdServiceInterface interface {
	ResolveToken(override string) string
	Fetch(ctx context.Context, sel models.FilterSelection, tokenOverride string) ([]models.RawRecord, string, error)
	Curate(items []models.RawRecord) []models.CuratedRecord
	Save(collection string, raw models.RawRecord) error
	Saved(collection string) ([]*models.SavedRecord, error)
	ExportCurated(recs []models.CuratedRecord) ([]byte, error)
	ExportRaw(items []models.RawRecord) ([]byte, error)
}

type AdService struct {
	conf    *structures.Config
	logger  providers.Logger
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	invoker scrape.Invoker
	store   store.StoreInterface
}

// ResolveToken applies the token precedence: explicit per-call override, then
// the configured secret, then the environment. First non-empty value wins.
func (s *AdService) ResolveToken(override string) string {
	if t := strings.TrimSpace(override); t != "" {
		return t
	}
	if t := strings.TrimSpace(s.conf.Scraper.Token); t != "" {
		return t
	}
	if t := strings.TrimSpace(os.Getenv("APIFY_TOKEN")); t != "" {
		return t
	}
	return ""
}

// Fetch builds the search URL, serves the result from the scrape cache when
// the composite key matches, and invokes the scraper otherwise. A failed
// fetch returns without side effects, so previously displayed state stays
// untouched.
func (s *AdService) Fetch(ctx context.Context, sel models.FilterSelection, tokenOverride string) ([]models.RawRecord, string, error) {
	if strings.TrimSpace(sel.Keyword) == "" {
		return nil, "", ErrMissingKeyword
	}
	count := sel.Count
	if count == 0 {
		count = models.DefaultFetchCount
	}
	if count < models.MinFetchCount || count > models.MaxFetchCount {
		return nil, "", ErrCountOutOfRange
	}

	token := s.ResolveToken(tokenOverride)
	sourceURL := query.BuildLibraryURL(sel.CountryCode, sel.Keyword, sel.CategoryParam, sel.StatusParam, sel.MatchModeParam)

	key := scrapeCacheKey(sourceURL, token, count, sel.StatusParam)
	if cached, ok := s.cache.Get(key); ok {
		var items []models.RawRecord
		if err := json.Unmarshal(cached, &items); err == nil {
			s.logger.Debugf(providers.TypeApp, "Scrape served from cache: %s", sourceURL)
			return items, sourceURL, nil
		}
	}

	start := time.Now()
	items, err := s.invoker.Run(ctx, token, sourceURL, count, sel.StatusParam)
	s.metrics.ObserveScrapeDuration(time.Since(start))
	if err != nil {
		s.metrics.IncScrapes("error")
		s.logger.Errorf(providers.TypeApp, "Scrape failed for %s: %s", sourceURL, err)
		return nil, sourceURL, err
	}
	s.metrics.IncScrapes("ok")

	if payload, err := json.Marshal(items); err == nil {
		s.cache.Set(key, payload)
	}
	return items, sourceURL, nil
}

func (s *AdService) Curate(items []models.RawRecord) []models.CuratedRecord {
	curated := make([]models.CuratedRecord, len(items))
	for i, it := range items {
		curated[i] = normalize.Normalize(it)
	}
	return curated
}

func (s *AdService) Save(collection string, raw models.RawRecord) error {
	rec := normalize.Normalize(raw)
	if err := s.store.Insert(collection, &rec, raw); err != nil {
		return err
	}
	s.metrics.IncSaves(collection)
	return nil
}

func (s *AdService) Saved(collection string) ([]*models.SavedRecord, error) {
	return s.store.List(collection)
}

// exportHeader is the curated export column set, exactly the CuratedRecord
// schema in its declared order.
var exportHeader = []string{
	"ad_archive_id", "categories", "collation_count", "collation_id",
	"start_date", "end_date", "entity_type", "is_active",
	"page_id", "page_name", "cta_text", "cta_type",
	"link_url", "page_entity_type", "page_profile_picture_url",
	"page_profile_uri", "state_media_run_label", "total_active_time",
	"original_image_url",
}

// ExportCurated renders curated records as CSV, header exactly the curated
// schema.
func (s *AdService) ExportCurated(recs []models.CuratedRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range recs {
		if err := w.Write(curatedRow(&recs[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportRaw renders the unmodified raw records as indented JSON.
func (s *AdService) ExportRaw(items []models.RawRecord) ([]byte, error) {
	return json.MarshalIndent(items, "", "  ")
}

func curatedRow(rec *models.CuratedRecord) []string {
	return []string{
		deref(rec.AdArchiveID), deref(rec.Categories), deref(rec.CollationCount), deref(rec.CollationID),
		deref(rec.StartDate), deref(rec.EndDate), deref(rec.EntityType), boolCell(rec.IsActive),
		deref(rec.PageID), deref(rec.PageName), deref(rec.CtaText), deref(rec.CtaType),
		deref(rec.LinkURL), deref(rec.PageEntityType), deref(rec.PageProfilePictureURL),
		deref(rec.PageProfileURI), deref(rec.StateMediaRunLabel), intCell(rec.TotalActiveTime),
		deref(rec.OriginalImageURL),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolCell(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func intCell(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

// scrapeCacheKey is the composite identity of one scrape call. The token is
// hashed so secrets never become cache keys verbatim.
func scrapeCacheKey(sourceURL, token string, count int, activeStatus string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("scrape:%s|%s|%d|%s", sourceURL, hex.EncodeToString(sum[:8]), count, activeStatus)
}

func NewAdService(
	conf *structures.Config,
	logger providers.Logger,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
	invoker scrape.Invoker,
	st store.StoreInterface,
) AdServiceInterface {
	return &AdService{
		conf:    conf,
		logger:  logger,
		cache:   cache,
		metrics: metrics,
		invoker: invoker,
		store:   st,
	}
}
