// Package scrape is the boundary to the external ad-library scraping actor.
// It composes the run request, forwards the bearer token, and hands back the
// raw dataset items untouched. No retries, no pagination.
package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"

	"adlens/internal/models"
	"adlens/internal/providers"
	"adlens/internal/structures"
)

// ErrMissingToken means the run could not even be attempted: no API token
// reached the invoker.
var ErrMissingToken = errors.New("missing apify api token")

// ErrDependencyUnavailable means the scrape backend could not be reached at
// the transport level. Distinct from UpstreamError, which means the backend
// was reached and the run failed.
var ErrDependencyUnavailable = errors.New("scrape backend unavailable")

// UpstreamError carries the upstream failure through to the caller.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("scrape run failed: status %d: %s", e.Status, e.Message)
}

type Invoker interface {
	Run(ctx context.Context, token, sourceURL string, count int, activeStatus string) ([]models.RawRecord, error)
}

type runInput struct {
	Urls         []runURL `json:"urls"`
	Count        int      `json:"count"`
	ActiveStatus string   `json:"scrapePageAds.activeStatus"`
	Period       string   `json:"period"`
}

type runURL struct {
	URL string `json:"url"`
}

// ApifyInvoker runs the ad-library actor synchronously and returns its
// dataset items.
type ApifyInvoker struct {
	client  *http.Client
	baseURL string
	actor   string
	logger  providers.Logger
}

func NewApifyInvoker(conf *structures.Config, logger providers.Logger) Invoker {
	return &ApifyInvoker{
		client:  &http.Client{Timeout: conf.Scraper.Timeout},
		baseURL: conf.Scraper.BaseURL,
		actor:   conf.Scraper.Actor,
		logger:  logger,
	}
}

const maxUpstreamErrorBody = 2048

func (a *ApifyInvoker) Run(ctx context.Context, token, sourceURL string, count int, activeStatus string) ([]models.RawRecord, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	input := runInput{
		Urls:         []runURL{{URL: sourceURL}},
		Count:        count,
		ActiveStatus: activeStatus,
		Period:       "",
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode run input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		a.baseURL, a.actor, url.QueryEscape(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamErrorBody))
		return nil, &UpstreamError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	var items []models.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, Message: fmt.Sprintf("undecodable dataset: %v", err)}
	}

	a.logger.Infof(providers.TypeApp, "Scrape run returned %d items", len(items))
	return items, nil
}
