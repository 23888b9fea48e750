// Package metrics provides Prometheus metrics for ScribeStore
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for ScribeStore
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Persistence metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	DocumentsTotal         prometheus.Gauge
	VersionsTotal          prometheus.Gauge

	// Document operation metrics
	SnapshotsTotal prometheus.Counter
	RestoresTotal  prometheus.Counter

	// Search metrics
	SearchQueriesTotal   *prometheus.CounterVec
	SearchResultsTotal   prometheus.Counter
	SuggestionCallsTotal prometheus.Counter
	HighlightCallsTotal  prometheus.Counter

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	// HTTP request metrics
	m.HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribestore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	m.HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scribestore_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scribestore_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Persistence metrics
	m.StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribestore_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"operation", "status"},
	)

	m.StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scribestore_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	m.DocumentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scribestore_documents_total",
			Help: "Total number of documents held in memory",
		},
	)

	m.VersionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scribestore_versions_total",
			Help: "Total number of retained document versions",
		},
	)

	// Document operation metrics
	m.SnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scribestore_snapshots_total",
			Help: "Total number of version snapshots created",
		},
	)

	m.RestoresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scribestore_restores_total",
			Help: "Total number of version restores",
		},
	)

	// Search metrics
	m.SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribestore_search_queries_total",
			Help: "Total number of search queries by kind",
		},
		[]string{"kind"},
	)

	m.SearchResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scribestore_search_results_total",
			Help: "Total number of search results returned",
		},
	)

	m.SuggestionCallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scribestore_suggestion_calls_total",
			Help: "Total number of suggestion lookups",
		},
	)

	m.HighlightCallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scribestore_highlight_calls_total",
			Help: "Total number of highlight requests",
		},
	)

	// Server metrics
	m.ServerUptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scribestore_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime periodically updates the server uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request with its status
func (m *Metrics) RecordHTTPRequest(route, method, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordStoreOperation records a document store operation
func (m *Metrics) RecordStoreOperation(operation, status string, duration time.Duration) {
	m.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	m.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSearch records a search query and its result count
func (m *Metrics) RecordSearch(kind string, results int) {
	m.SearchQueriesTotal.WithLabelValues(kind).Inc()
	m.SearchResultsTotal.Add(float64(results))
}

// UpdateCollectionStats updates document collection statistics
func (m *Metrics) UpdateCollectionStats(docCount, versionCount int) {
	m.DocumentsTotal.Set(float64(docCount))
	m.VersionsTotal.Set(float64(versionCount))
}
