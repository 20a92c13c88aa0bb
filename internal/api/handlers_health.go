// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/tl-toroama/catalog/internal/cache"
	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/models"
)

// Health handles GET /health. It reports "degraded" while no works are
// loaded and never triggers a snapshot load itself.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.snap.Stats()

	status := "healthy"
	if !stats.WorksLoaded || stats.Works == 0 {
		status = "degraded"
	}

	start := time.Now()
	w.Header().Set("Cache-Control", "no-store")
	health := models.HealthResponse{
		Status:    status,
		Version:   Version,
		Uptime:    time.Since(h.start).Seconds(),
		Timestamp: start.UTC(),
		Snapshot:  stats,
		Cache:     h.cache.GetStats(),
	}
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     health,
		Metadata: models.Metadata{Timestamp: start.UTC()},
	})
}

// Sitemap handles GET /sitemap.xml. The rendered document is kept in the
// response cache alongside the JSON responses.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	key := cache.GenerateKey("sitemap", nil)

	body, ok := h.cache.Get(key)
	if !ok {
		var buf bytes.Buffer
		counts, err := h.sitemap.Write(r.Context(), &buf)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "failed to render sitemap", err)
			return
		}
		logging.Ctx(r.Context()).Debug().
			Int("urls", counts.Total()).
			Int("works", counts.Works).
			Msg("Sitemap rendered")
		body = buf.Bytes()
		h.cache.Set(key, body)
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body.([]byte)); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write sitemap")
	}
}

// ClearSnapshotHandler handles POST /api/v1/admin/snapshot/clear.
func (h *Handler) ClearSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats := h.ClearSnapshot(r.Context())
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   models.SnapshotClearResponse{Cleared: true, Snapshot: stats},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Performance handles GET /api/v1/admin/performance: per-route latency
// percentiles over the most recent requests.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	stats := h.perfMon.Stats()
	count := len(stats)
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   stats,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			Count:     &count,
		},
	})
}
