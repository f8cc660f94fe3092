package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"adlens/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncScrapes(outcome string)
	ObserveScrapeDuration(duration time.Duration)
	IncSaves(collection string)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	scrapesTotal    *prometheus.CounterVec
	scrapeDuration  prometheus.Histogram
	savesTotal      *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncScrapes(outcome string) {
	m.scrapesTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveScrapeDuration(duration time.Duration) {
	m.scrapeDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSaves(collection string) {
	m.savesTotal.WithLabelValues(collection).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adlens_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adlens_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adlens_cache_hits_total",
			Help: "Total number of scrape cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adlens_cache_misses_total",
			Help: "Total number of scrape cache misses",
		}),

		scrapesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adlens_scrapes_total",
			Help: "Total number of scrape invocations by outcome",
		}, []string{"outcome"}),

		scrapeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "adlens_scrape_duration_seconds",
			Help:    "Duration of scrape invocations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		savesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adlens_saves_total",
			Help: "Total number of records saved per collection",
		}, []string{"collection"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncScrapes(_ string)                              {}
func (n *noopMetrics) ObserveScrapeDuration(_ time.Duration)            {}
func (n *noopMetrics) IncSaves(_ string)                                {}
