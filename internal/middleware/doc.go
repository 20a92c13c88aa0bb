// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package middleware provides the HTTP middleware mounted by the API router.

  - RequestID: propagates or generates X-Request-ID and stores it for logging.Ctx
  - PrometheusMetrics: api_requests_total, api_request_duration_seconds and
    api_active_requests, labelled by chi route pattern
  - Compression: gzip for clients sending Accept-Encoding: gzip
  - PerformanceMonitor: ring buffer of recent requests with per-route
    percentiles, served on the admin performance endpoint

All of them are plain func(http.Handler) http.Handler and compose with
chi's r.Use:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)

PrometheusMetrics and PerformanceMonitor read the route pattern after the
handler returns, so they must be mounted on the router (r.Use) rather than
wrapped around it.
*/
package middleware
