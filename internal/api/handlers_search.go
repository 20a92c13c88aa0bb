// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package api

import (
	"net/http"

	"github.com/tl-toroama/catalog/internal/cache"
	"github.com/tl-toroama/catalog/internal/models"
	"github.com/tl-toroama/catalog/internal/search"
	"github.com/tl-toroama/catalog/internal/validation"
)

// Search handles GET /api/v1/search. It runs fuzzy match, the compound
// filter and the sort over the whole projection. Count is the number of
// matches before limit truncates Items.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.SearchRequest{
		Q:        p.String("q"),
		Category: p.String("category"),
		OnSale:   p.Bool("on_sale"),
		Platform: p.String("platform"),
		MaxPrice: p.PriceCeiling("max_price"),
		Sort:     p.String("sort"),
		Limit:    p.Int("limit"),
	}
	if !p.bind(w, &req) {
		return
	}

	category, err := search.ParseCategory(req.Category)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	platform, err := search.ParsePlatform(req.Platform)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	sortType, err := search.ParseSort(req.Sort)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	limit := req.Limit
	if limit == 0 || limit > h.config.Search.MaxResults {
		limit = h.config.Search.MaxResults
	}

	q := search.Query{
		Text: req.Q,
		Filter: search.Filter{
			Category:   category,
			OnSaleOnly: req.OnSale,
			Platform:   platform,
			MaxPrice:   req.MaxPrice,
		},
		Sort: sortType,
	}
	h.cached(w, r, "search", [2]any{q, limit}, func() any {
		res := h.matcher.Run(h.searchIndex(r.Context()), q)
		items := res.Items
		if len(items) > limit {
			items = items[:limit]
		}
		return models.SearchResponse{Items: items, Total: res.Total, Count: res.Count}
	})
}

// SearchIndex handles GET /api/v1/search/index: the full projection, for
// clients that search locally.
func (h *Handler) SearchIndex(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "search_index", nil, func() any {
		return h.searchIndex(r.Context()).Items()
	})
}

// Suggest handles GET /api/v1/suggest?prefix=&kind=&limit=.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.SuggestRequest{
		Prefix: p.String("prefix"),
		Kind:   p.String("kind"),
		Limit:  p.Int("limit"),
	}
	if !p.bind(w, &req) {
		return
	}

	var kinds []cache.Kind
	if req.Kind != "" {
		kinds = append(kinds, cache.Kind(req.Kind))
	}
	h.cached(w, r, "suggest", req, func() any {
		suggestions := h.suggester(r.Context()).Autocomplete(req.Prefix, req.Limit, kinds...)
		if suggestions == nil {
			suggestions = []cache.Suggestion{}
		}
		return models.SuggestResponse{Prefix: req.Prefix, Suggestions: suggestions}
	})
}
