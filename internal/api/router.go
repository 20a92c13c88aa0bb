// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tl-toroama/catalog/internal/middleware"
	"github.com/tl-toroama/catalog/internal/models"
)

// Router wires the handler into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	adminToken    string
}

// NewRouter builds the router from the handler's security config.
func NewRouter(handler *Handler) *Router {
	sec := &handler.config.Security
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromSecurity(sec)),
		adminToken:    sec.AdminToken,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondNotFound(w, r, "route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, models.ErrCodeValidation, "method not allowed", nil)
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.With(middleware.Compression).Get("/sitemap.xml", h.Sitemap)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(h.perfMon.Middleware)
		r.Use(middleware.Compression)

		r.Route("/works", func(r chi.Router) {
			r.Get("/", h.WorksByIDs)
			r.Get("/new", h.NewWorks)
			r.Get("/sale", h.SaleWorks)
			r.Get("/bargain", h.BargainWorks)
			r.Get("/high-rated", h.HighRated)
			r.Get("/genre", h.WorksByGenre)
			r.Get("/ranking/dlsite", h.DLsiteRanking)
			r.Get("/ranking/fanza", h.FANZARanking)
			r.Get("/ranking/voice", h.VoiceRanking)
			r.Get("/ranking/game", h.GameRanking)
			r.Get("/{ref}", h.Work)
			r.Get("/{ref}/related", h.RelatedWorks)
		})

		r.Get("/circles", h.Circles)
		r.Get("/circles/{name}", h.Circle)

		r.Get("/actors", h.Actors)
		r.Get("/actors/{name}/works", h.ActorWorks)

		r.Get("/tags", h.Tags)
		r.Get("/tags/popular", h.PopularTags)
		r.Get("/tags/{name}/works", h.TagWorks)
		r.Get("/tags/{name}/related", h.RelatedTags)

		r.Get("/sale/browse", h.SaleBrowse)
		r.Get("/search", h.Search)
		r.Get("/search/index", h.SearchIndex)
		r.Get("/suggest", h.Suggest)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdminToken(router.adminToken))
			r.Post("/snapshot/clear", h.ClearSnapshotHandler)
			r.Get("/performance", h.Performance)
		})
	})

	return r
}
