package controllers

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"adlens/internal/models"
	"adlens/internal/normalize"
	"adlens/internal/providers"
	"adlens/internal/scrape"
	"adlens/internal/services"
	"adlens/internal/store"
)

const maxRequestBodySize = 10 << 20 // 10 MB; raw record payloads are bulky

// cardBodySummaryLength matches the card body's visible text budget.
const cardBodySummaryLength = 200

type ApiController struct {
	logger  providers.Logger
	service services.AdServiceInterface
}

func NewApiController(logger providers.Logger, service services.AdServiceInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
	}
}

type searchRequest struct {
	CountryCode  string `json:"country_code"`
	Keyword      string `json:"keyword"`
	Category     string `json:"category"`
	ActiveStatus string `json:"active_status"`
	SearchMode   string `json:"search_mode"`
	Count        int    `json:"count"`
	Token        string `json:"token,omitempty"`
}

// adView is one record as the UI displays it: the curated projection plus
// the read-time fields (status, running days, media, summary) that are never
// stored.
type adView struct {
	models.CuratedRecord
	Status      string `json:"status"`
	RunningDays *int   `json:"running_days"`
	MediaKind   string `json:"media_kind,omitempty"`
	MediaURL    string `json:"media_url,omitempty"`
	Summary     string `json:"summary"`
}

func buildAdView(raw models.RawRecord, now time.Time) adView {
	kind, url := normalize.PrimaryMedia(raw)
	return adView{
		CuratedRecord: normalize.Normalize(raw),
		Status:        normalize.DetectStatus(raw, now),
		RunningDays:   normalize.RunningDays(raw, now),
		MediaKind:     kind,
		MediaURL:      url,
		Summary:       normalize.Summarize(normalize.AdText(raw), cardBodySummaryLength),
	}
}

type searchResponse struct {
	Count    int      `json:"count"`
	QueryURL string   `json:"query_url"`
	Ads      []adView `json:"ads"`
}

// Search runs a scrape for the given filter selections and returns the
// curated result. An empty result is a successful response with count 0,
// distinct from the error statuses.
func (ac *ApiController) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sel := models.FilterSelection{
		CountryCode:    req.CountryCode,
		Keyword:        req.Keyword,
		CategoryParam:  mapLabel(CategoryLabelToAdType, req.Category),
		StatusParam:    mapLabel(ActiveStatusLabelToParam, req.ActiveStatus),
		MatchModeParam: mapLabel(SearchModeLabelToParam, req.SearchMode),
		Count:          req.Count,
	}

	items, queryURL, err := ac.service.Fetch(r.Context(), sel, req.Token)
	if err != nil {
		ac.writeFetchError(w, err)
		return
	}

	now := time.Now().UTC()
	views := make([]adView, len(items))
	for i, it := range items {
		views[i] = buildAdView(it, now)
	}
	ac.writeJSON(w, http.StatusOK, searchResponse{
		Count:    len(views),
		QueryURL: queryURL,
		Ads:      views,
	})
}

func (ac *ApiController) writeFetchError(w http.ResponseWriter, err error) {
	var upstream *scrape.UpstreamError
	switch {
	case errors.Is(err, services.ErrMissingKeyword),
		errors.Is(err, services.ErrCountOutOfRange),
		errors.Is(err, scrape.ErrMissingToken):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, scrape.ErrDependencyUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &upstream):
		http.Error(w, upstream.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

type saveRequest struct {
	Collection string           `json:"collection"`
	Record     models.RawRecord `json:"record"`
}

func (ac *ApiController) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Record == nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.service.Save(req.Collection, req.Record); err != nil {
		if errors.Is(err, store.ErrInvalidCollection) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ac.logger.Errorf(providers.TypePost, "Save to %s failed: %s", req.Collection, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusCreated, map[string]any{"saved": true, "collection": req.Collection})
}

type savedView struct {
	ID      int64     `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	adView
	Raw any `json:"raw_json,omitempty"`
}

type savedResponse struct {
	Collection string      `json:"collection"`
	Count      int         `json:"count"`
	Ads        []savedView `json:"ads"`
}

// SavedAds lists a collection, most recently saved first. Running days and
// status are recomputed against the current instant, not read from storage.
func (ac *ApiController) SavedAds(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")
	rows, err := ac.service.Saved(collection)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCollection) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ac.logger.Errorf(providers.TypeGet, "List %s failed: %s", collection, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	views := make([]savedView, len(rows))
	for i, row := range rows {
		views[i] = buildSavedView(row, now)
	}
	ac.writeJSON(w, http.StatusOK, savedResponse{
		Collection: collection,
		Count:      len(views),
		Ads:        views,
	})
}

func buildSavedView(row *models.SavedRecord, now time.Time) savedView {
	v := savedView{ID: row.ID, SavedAt: row.SavedAt, Raw: row.Raw}
	if raw, ok := row.Raw.(models.RawRecord); ok {
		v.adView = buildAdView(raw, now)
		// stored curated fields stay authoritative over the re-projection
		v.adView.CuratedRecord = row.CuratedRecord
	} else {
		v.adView = adView{CuratedRecord: row.CuratedRecord, Status: savedStatus(&row.CuratedRecord, now)}
	}
	return v
}

// savedStatus derives a display status for rows saved without a raw copy.
func savedStatus(rec *models.CuratedRecord, now time.Time) string {
	if rec.IsActive != nil && !*rec.IsActive {
		return "Inactive"
	}
	if rec.EndDate != nil {
		if end, ok := normalize.ParseDateMaybe(*rec.EndDate); ok && end.Before(now) {
			return "Inactive"
		}
	}
	return normalize.DefaultStatus
}

type exportRequest struct {
	Records []models.RawRecord `json:"records"`
}

// ExportCurated streams the curated projection of the posted records as a
// CSV download artifact.
func (ac *ApiController) ExportCurated(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	data, err := ac.service.ExportCurated(ac.service.Curate(req.Records))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, "ads_curated.csv", "text/csv", data)
}

// ExportRaw streams the unmodified records as a JSON download artifact,
// independent from the curated export.
func (ac *ApiController) ExportRaw(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	data, err := ac.service.ExportRaw(req.Records)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, "ads_raw.json", "application/json", data)
}

// ExportSavedCurated downloads a collection's curated rows as CSV.
func (ac *ApiController) ExportSavedCurated(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")
	rows, err := ac.service.Saved(collection)
	if err != nil {
		ac.writeSavedError(w, collection, err)
		return
	}
	recs := make([]models.CuratedRecord, len(rows))
	for i, row := range rows {
		recs[i] = row.CuratedRecord
	}
	data, err := ac.service.ExportCurated(recs)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, collection+"_curated.csv", "text/csv", data)
}

// ExportSavedRaw downloads a collection's stored raw records as JSON. Rows
// saved without a raw copy are skipped.
func (ac *ApiController) ExportSavedRaw(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")
	rows, err := ac.service.Saved(collection)
	if err != nil {
		ac.writeSavedError(w, collection, err)
		return
	}
	var raws []models.RawRecord
	for _, row := range rows {
		if raw, ok := row.Raw.(models.RawRecord); ok {
			raws = append(raws, raw)
		}
	}
	data, err := ac.service.ExportRaw(raws)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, collection+"_raw.json", "application/json", data)
}

func (ac *ApiController) writeSavedError(w http.ResponseWriter, collection string, err error) {
	if errors.Is(err, store.ErrInvalidCollection) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ac.logger.Errorf(providers.TypeGet, "Export %s failed: %s", collection, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

type filtersResponse struct {
	Categories   map[string]string `json:"categories"`
	ActiveStatus map[string]string `json:"active_status"`
	SearchModes  map[string]string `json:"search_modes"`
	Countries    []Country         `json:"countries"`
	Collections  []string          `json:"collections"`
}

// Filters exposes the label tables the UI builds its selectors from.
func (ac *ApiController) Filters(w http.ResponseWriter, _ *http.Request) {
	ac.writeJSON(w, http.StatusOK, filtersResponse{
		Categories:   CategoryLabelToAdType,
		ActiveStatus: ActiveStatusLabelToParam,
		SearchModes:  SearchModeLabelToParam,
		Countries:    CommonCountries,
		Collections:  store.Collections,
	})
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
