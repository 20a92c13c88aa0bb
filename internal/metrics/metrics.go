// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog query engine
	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Duration of in-memory catalog queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"query"},
	)

	CatalogQueryResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_query_results_total",
			Help: "Total number of works returned by catalog queries",
		},
		[]string{"query"},
	)

	// Snapshot loader
	SnapshotRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snapshot_records",
			Help: "Number of records held in the loaded snapshot",
		},
		[]string{"collection"}, // "works", "circles"
	)

	SnapshotLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snapshot_load_duration_seconds",
			Help:    "Time spent reading and decoding a snapshot collection",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "format"},
	)

	SnapshotLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_load_failures_total",
			Help: "Snapshot loads that degraded to an empty collection",
		},
		[]string{"collection", "reason"}, // "missing", "error"
	)

	SnapshotFetchBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_fetch_bytes_total",
			Help: "Bytes downloaded from the remote snapshot origin",
		},
		[]string{"file"},
	)

	SnapshotFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snapshot_fetch_duration_seconds",
			Help:    "Duration of remote snapshot downloads",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"file"},
	)

	// DuckDB (Parquet snapshot reads)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Search pipeline
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_pipeline_duration_seconds",
			Help:    "Duration of search, filter and sort over the projection",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_pipeline_results",
			Help:    "Number of items returned by the search pipeline",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	// Response cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit breaker (remote snapshot fetch)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordCatalogQuery records one catalog engine query and its result size.
func RecordCatalogQuery(query string, duration time.Duration, results int) {
	CatalogQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	CatalogQueryResults.WithLabelValues(query).Add(float64(results))
}

// RecordSnapshotLoad records a completed collection load.
func RecordSnapshotLoad(collection, format string, duration time.Duration, records int) {
	SnapshotLoadDuration.WithLabelValues(collection, format).Observe(duration.Seconds())
	SnapshotRecords.WithLabelValues(collection).Set(float64(records))
}

// RecordSnapshotFailure records a load that fell back to an empty collection.
func RecordSnapshotFailure(collection, reason string) {
	SnapshotLoadFailures.WithLabelValues(collection, reason).Inc()
	SnapshotRecords.WithLabelValues(collection).Set(0)
}

// RecordSnapshotFetch records a downloaded snapshot file.
func RecordSnapshotFetch(file string, bytes int64, duration time.Duration) {
	SnapshotFetchBytes.WithLabelValues(file).Add(float64(bytes))
	SnapshotFetchDuration.WithLabelValues(file).Observe(duration.Seconds())
}

// RecordDBQuery records a DuckDB query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordSearch records one search pipeline run.
func RecordSearch(duration time.Duration, results int) {
	SearchDuration.Observe(duration.Seconds())
	SearchResults.Observe(float64(results))
}

// RecordCacheAccess counts a hit or a miss for the named cache.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
