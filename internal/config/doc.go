// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package config provides layered configuration for the catalog server and
tooling.

# Configuration Sources

Koanf v2 merges three layers, later layers winning:
  - struct defaults (defaultConfig)
  - an optional YAML file (CONFIG_PATH, or config.yaml in the search list)
  - environment variables with explicit names (see envMappings)

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 8080), HTTP_TIMEOUT, ENVIRONMENT

Snapshot:
  - SNAPSHOT_DIR (default data), SNAPSHOT_FORMAT (json|parquet)
  - SNAPSHOT_REMOTE_BASE_URL or R2_PUBLIC_DOMAIN, SNAPSHOT_FETCH_ON_START
  - SNAPSHOT_FETCH_TIMEOUT, SNAPSHOT_FETCH_RATE, SNAPSHOT_SAFE_URL
  - SNAPSHOT_REFRESH_INTERVAL (0 disables, otherwise at least 1m)
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS (Parquet reads)

Serving:
  - SEARCH_THRESHOLD (default 0.4), SEARCH_MAX_RESULTS
  - RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT
  - CACHE_ENABLED, CACHE_TYPE (ttl|lfu), CACHE_TTL, CACHE_CAPACITY
  - API_DEFAULT_PAGE_SIZE, API_MAX_PAGE_SIZE
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS, TRUSTED_PROXIES (comma-separated), ADMIN_TOKEN
  - SITEMAP_BASE_URL or BASE_URL

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Validate runs after unmarshaling and returns the first descriptive error,
naming the environment variable to fix.
*/
package config
