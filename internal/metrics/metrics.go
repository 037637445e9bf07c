package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Quartermaster
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Import Metrics
	RowsClassifiedTotal  prometheus.CounterVec
	CommitsTotal         prometheus.CounterVec
	CommitDuration       prometheus.Histogram
	RecordsWrittenTotal  prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quartermaster_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quartermaster_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quartermaster_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quartermaster_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quartermaster_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		RowsClassifiedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quartermaster_rows_classified_total",
				Help: "Candidate rows classified during reconciliation, by entity and class",
			},
			[]string{"entity", "class"},
		),
		CommitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quartermaster_commits_total",
				Help: "Import commit attempts by final status",
			},
			[]string{"status"},
		),
		CommitDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quartermaster_commit_duration_seconds",
				Help:    "Time spent inside the commit critical section",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		RecordsWrittenTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quartermaster_records_written_total",
				Help: "Master records written by committed imports, by entity and operation",
			},
			[]string{"entity", "operation"},
		),
	}
}
