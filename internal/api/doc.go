// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package api serves the catalog over HTTP with chi.

Every JSON endpoint answers with the models.APIResponse envelope:

	{"status":"success","data":[...],"metadata":{"timestamp":"...","query_time_ms":1,"cached":false}}

Errors carry a code from the models.ErrCode* set and a message. Query
parameters are parsed by a small typed reader and then checked by the
validation package, so a bad request lists every offending field.

# Routes

All catalog routes live under /api/v1:

	GET  /works?ids=1,2              works by id, in request order
	GET  /works/new|sale|bargain|high-rated|genre
	GET  /works/ranking/{dlsite,fanza,voice,game}
	GET  /works/{ref}                numeric id or RJ code
	GET  /works/{ref}/related        related, circle, actor and tag lists
	GET  /circles, /circles/{name}
	GET  /actors, /actors/{name}/works
	GET  /tags, /tags/popular, /tags/{name}/works, /tags/{name}/related
	GET  /sale/browse
	GET  /search, /search/index
	GET  /suggest
	POST /admin/snapshot/clear       X-Admin-Token required
	GET  /admin/performance          X-Admin-Token required

/health, /metrics and /sitemap.xml sit at the root outside the rate limit.

# Caching

Responses are pure functions of the snapshot, so computed data is kept in
the cache.Cacher selected by config. Clearing the snapshot through the
admin route drops the cache and the derived search and suggestion indexes
before reloading.
*/
package api
