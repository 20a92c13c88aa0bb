// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package main is the entry point for the catalog HTTP server.

The server loads a snapshot of DLsite and FANZA works plus their circles,
and answers read-only catalog queries (lists, rankings, sale browsing,
search, related works and sitemaps) over a JSON API.

# Application Architecture

	RootSupervisor ("catalog")
	├── DataSupervisor ("data-layer")
	│   └── Snapshot service (fetch, load, optional refresh)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog, JSON or console output
 3. Database: DuckDB, only when SNAPSHOT_FORMAT=parquet
 4. Snapshot: memoized works and circles read from SNAPSHOT_DIR
 5. Catalog engine and API handler
 6. Supervisor tree: Suture v4 process supervision

# Configuration

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	SNAPSHOT_DIR=data
	SNAPSHOT_FORMAT=json         # json or parquet
	SNAPSHOT_REMOTE_BASE_URL=https://cdn.example.com
	SNAPSHOT_FETCH_ON_START=true
	SNAPSHOT_REFRESH_INTERVAL=1h # 0 disables refresh
	ADMIN_TOKEN=<secret>         # enables /api/v1/admin routes

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server stops
accepting connections and drains in-flight requests for up to 10s, then
the database is closed.

# Example Usage

	SNAPSHOT_DIR=./data LOG_FORMAT=console ./server

	docker run -d -p 8080:8080 \
	  -e SNAPSHOT_FORMAT=parquet \
	  -e SNAPSHOT_REMOTE_BASE_URL=https://cdn.example.com \
	  -e SNAPSHOT_FETCH_ON_START=true \
	  ghcr.io/tl-toroama/catalog
*/
package main
