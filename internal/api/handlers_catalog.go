// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/models"
	"github.com/tl-toroama/catalog/internal/validation"
)

// nameParam returns the unescaped {name} path segment. Names are
// user-facing Japanese strings, so chi may hand back the raw escaped form.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// Circles handles GET /api/v1/circles.
func (h *Handler) Circles(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "circles", nil, func() any {
		return h.engine.Circles(r.Context())
	})
}

// Circle handles GET /api/v1/circles/{name}.
func (h *Handler) Circle(w http.ResponseWriter, r *http.Request) {
	req := validation.NameRequest{Name: nameParam(r)}
	if !validateRequest(w, r, &req) {
		return
	}

	result := h.engine.CircleWithWorks(r.Context(), req.Name)
	if result.Circle == nil {
		respondNotFound(w, r, "circle")
		return
	}
	h.cached(w, r, "circle", req.Name, func() any { return result })
}

// Actors handles GET /api/v1/actors.
func (h *Handler) Actors(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "actors", nil, func() any {
		return h.engine.Actors(r.Context())
	})
}

// ActorWorks handles GET /api/v1/actors/{name}/works. An unknown actor
// yields an empty list, not a 404.
func (h *Handler) ActorWorks(w http.ResponseWriter, r *http.Request) {
	req := validation.NameRequest{Name: nameParam(r)}
	if !validateRequest(w, r, &req) {
		return
	}
	h.cached(w, r, "actor_works", req.Name, func() any {
		return models.ActorDetail{
			Actor: req.Name,
			Works: h.engine.WorksByActor(r.Context(), req.Name),
		}
	})
}

// Tags handles GET /api/v1/tags.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "tags", nil, func() any {
		return h.engine.Tags(r.Context())
	})
}

// PopularTags handles GET /api/v1/tags/popular?limit=.
func (h *Handler) PopularTags(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.ListRequest{Limit: p.Int("limit")}
	if !p.bind(w, &req) {
		return
	}
	req.Limit = h.clampLimit(req.Limit)
	h.cached(w, r, "tags_popular", req, func() any {
		return h.engine.PopularTags(r.Context(), req.Limit)
	})
}

// TagWorks handles GET /api/v1/tags/{name}/works. The response also
// carries the tags that co-occur with it.
func (h *Handler) TagWorks(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.NameRequest{Name: nameParam(r), Limit: p.Int("limit")}
	if !p.bind(w, &req) {
		return
	}
	h.cached(w, r, "tag_works", req, func() any {
		ctx := r.Context()
		return models.TagDetail{
			Tag:         req.Name,
			Works:       h.engine.WorksByTag(ctx, req.Name),
			RelatedTags: h.engine.RelatedTags(ctx, req.Name, req.Limit),
		}
	})
}

// RelatedTags handles GET /api/v1/tags/{name}/related?limit=.
func (h *Handler) RelatedTags(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.NameRequest{Name: nameParam(r), Limit: p.Int("limit")}
	if !p.bind(w, &req) {
		return
	}
	h.cached(w, r, "tags_related", req, func() any {
		return h.engine.RelatedTags(r.Context(), req.Name, req.Limit)
	})
}

// SaleBrowse handles GET /api/v1/sale/browse?genre=&max_price=&sort=&limit=.
func (h *Handler) SaleBrowse(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.SaleBrowseRequest{
		Genre:    p.String("genre"),
		MaxPrice: p.PriceCeiling("max_price"),
		Sort:     p.String("sort"),
		Limit:    p.Int("limit"),
	}
	if !p.bind(w, &req) {
		return
	}

	genre, err := catalog.ParseSaleGenre(req.Genre)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	sort, err := catalog.ParseSaleSort(req.Sort)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	q := catalog.SaleQuery{Genre: genre, MaxPrice: req.MaxPrice, Sort: sort, Limit: h.clampLimit(req.Limit)}
	h.cached(w, r, "sale_browse", q, func() any {
		return h.engine.SaleBrowse(r.Context(), q)
	})
}
