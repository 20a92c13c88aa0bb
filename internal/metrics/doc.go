// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package metrics defines the Prometheus collectors for the catalog service.

All collectors are registered on the default registry through promauto and
exposed by the API server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Catalog engine:
  - catalog_query_duration_seconds{query}
  - catalog_query_results_total{query}

Snapshot:
  - snapshot_records{collection}
  - snapshot_load_duration_seconds{collection,format}
  - snapshot_load_failures_total{collection,reason}
  - snapshot_fetch_bytes_total{file}, snapshot_fetch_duration_seconds{file}
  - duckdb_query_duration_seconds{operation,table}, duckdb_query_errors_total

Search and cache:
  - search_pipeline_duration_seconds, search_pipeline_results
  - cache_hits_total{cache_type}, cache_misses_total{cache_type}

Resilience and HTTP:
  - circuit_breaker_state{name}, circuit_breaker_requests_total, circuit_breaker_transitions_total
  - api_requests_total, api_request_duration_seconds, api_active_requests, api_rate_limit_hits_total
*/
package metrics
