// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

// Package validation validates API query parameters with
// go-playground/validator v10.
//
// Request structs in requests.go declare one field per query parameter.
// The `query` tag names the parameter and is also the field name reported
// in errors, so a failure reads "max_price must be ..." rather than
// "MaxPrice must be ...".
//
// Custom rules:
//   - workref: a numeric work id or an RJ code (case-insensitive)
//   - price_ceiling: one of the sale price ceilings (0 = no ceiling)
//
// Usage:
//
//	req := validation.SearchRequest{Q: q, Sort: sort}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
