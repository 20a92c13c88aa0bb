// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package models defines the HTTP API envelope and response payloads.

Every JSON endpoint answers with APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 1, "cached": false},
	  "error": null
	}

Failures set status "error" and an APIError with one of the ErrCode*
constants. Payload types (WorkDetail, TagDetail, SearchResponse, ...)
compose catalog, search and snapshot values; the domain packages own the
field-level JSON contracts.
*/
package models
