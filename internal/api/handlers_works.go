// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/models"
	"github.com/tl-toroama/catalog/internal/validation"
)

// listHandler serves a limit-only work list such as new works or a ranking.
func (h *Handler) listHandler(route string, query func(ctx context.Context, limit int) []catalog.Work) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := newQueryParser(r)
		req := validation.ListRequest{Limit: p.Int("limit")}
		if !p.bind(w, &req) {
			return
		}
		req.Limit = h.clampLimit(req.Limit)
		h.cached(w, r, route, req, func() any {
			return query(r.Context(), req.Limit)
		})
	}
}

// NewWorks handles GET /api/v1/works/new.
func (h *Handler) NewWorks(w http.ResponseWriter, r *http.Request) {
	h.listHandler("works_new", h.engine.NewWorks)(w, r)
}

// SaleWorks handles GET /api/v1/works/sale.
func (h *Handler) SaleWorks(w http.ResponseWriter, r *http.Request) {
	h.listHandler("works_sale", h.engine.SaleWorks)(w, r)
}

// DLsiteRanking handles GET /api/v1/works/ranking/dlsite.
func (h *Handler) DLsiteRanking(w http.ResponseWriter, r *http.Request) {
	h.listHandler("ranking_dlsite", h.engine.DLsiteRanking)(w, r)
}

// FANZARanking handles GET /api/v1/works/ranking/fanza.
func (h *Handler) FANZARanking(w http.ResponseWriter, r *http.Request) {
	h.listHandler("ranking_fanza", h.engine.FANZARanking)(w, r)
}

// VoiceRanking handles GET /api/v1/works/ranking/voice.
func (h *Handler) VoiceRanking(w http.ResponseWriter, r *http.Request) {
	h.listHandler("ranking_voice", h.engine.VoiceRanking)(w, r)
}

// GameRanking handles GET /api/v1/works/ranking/game.
func (h *Handler) GameRanking(w http.ResponseWriter, r *http.Request) {
	h.listHandler("ranking_game", h.engine.GameRanking)(w, r)
}

// BargainWorks handles GET /api/v1/works/bargain?max_price=&limit=.
func (h *Handler) BargainWorks(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.BargainRequest{MaxPrice: p.Int("max_price"), Limit: p.Int("limit")}
	if !p.bind(w, &req) {
		return
	}
	req.Limit = h.clampLimit(req.Limit)
	h.cached(w, r, "works_bargain", req, func() any {
		return h.engine.BargainWorks(r.Context(), req.MaxPrice, req.Limit)
	})
}

// HighRated handles GET /api/v1/works/high-rated?min_rating=&limit=.
func (h *Handler) HighRated(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.HighRatedRequest{MinRating: p.Float("min_rating"), Limit: p.Int("limit")}
	if !p.bind(w, &req) {
		return
	}
	req.Limit = h.clampLimit(req.Limit)
	h.cached(w, r, "works_high_rated", req, func() any {
		return h.engine.HighRated(r.Context(), req.MinRating, req.Limit)
	})
}

// WorksByGenre handles GET /api/v1/works/genre?genre=&limit=.
func (h *Handler) WorksByGenre(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.GenreRequest{Genre: p.String("genre"), Limit: p.Int("limit")}
	if !p.bind(w, &req) {
		return
	}
	req.Limit = h.clampLimit(req.Limit)
	h.cached(w, r, "works_genre", req, func() any {
		return h.engine.WorksByGenre(r.Context(), req.Genre, req.Limit)
	})
}

// WorksByIDs handles GET /api/v1/works?ids=1,2,3. Unknown ids are dropped;
// the rest keep the requested order.
func (h *Handler) WorksByIDs(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.WorkIDsRequest{IDs: p.Int64List("ids")}
	if !p.bind(w, &req) {
		return
	}
	h.cached(w, r, "works_by_ids", req, func() any {
		return h.engine.WorksByIDs(r.Context(), req.IDs)
	})
}

// Work handles GET /api/v1/works/{ref}, where ref is a numeric id or an RJ
// code.
func (h *Handler) Work(w http.ResponseWriter, r *http.Request) {
	req := validation.WorkRefRequest{Ref: chi.URLParam(r, "ref")}
	if !validateRequest(w, r, &req) {
		return
	}

	work, ok := h.engine.ResolveWork(r.Context(), req.Ref)
	if !ok {
		respondNotFound(w, r, "work")
		return
	}
	h.cached(w, r, "work", work.ID, func() any { return work })
}

// RelatedWorks handles GET /api/v1/works/{ref}/related?limit=. It returns
// every list shown beside a work: related works, more from the circle,
// more from the main cast member and works with similar tags.
func (h *Handler) RelatedWorks(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := validation.WorkRefRequest{Ref: chi.URLParam(r, "ref"), Limit: p.Int("limit")}
	if !p.bind(w, &req) {
		return
	}

	ctx := r.Context()
	work, ok := h.engine.ResolveWork(ctx, req.Ref)
	if !ok {
		respondNotFound(w, r, "work")
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = h.config.Recommend.DefaultLimit
	}
	h.cached(w, r, "work_related", [2]int64{work.ID, int64(limit)}, func() any {
		detail := models.WorkDetail{
			Work:         work,
			Related:      h.engine.RelatedWorks(ctx, work.ID, limit),
			CircleWorks:  []catalog.Work{},
			ActorWorks:   []catalog.Work{},
			SimilarWorks: h.engine.SimilarWorksByTags(ctx, work.ID, work.Tags, limit),
		}
		if work.HasCircle() {
			detail.CircleWorks = h.engine.PopularWorksByCircle(ctx, work.CircleID, work.ID, limit)
		}
		if len(work.Cast) > 0 {
			detail.MainActor = work.Cast[0]
			detail.ActorWorks = h.engine.PopularWorksByActor(ctx, work.Cast[0], work.ID, limit)
		}
		return detail
	})
}
