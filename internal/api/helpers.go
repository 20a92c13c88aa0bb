// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tl-toroama/catalog/internal/cache"
	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/models"
	"github.com/tl-toroama/catalog/internal/validation"
)

// sanitizeLogValue escapes control characters so user input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case w.Header().Get("Cache-Control") != "":
	case status == http.StatusOK:
		w.Header().Set("Cache-Control", "public, max-age=60")
	default:
		w.Header().Set("Cache-Control", "no-store")
	}
	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag is a weak FNV-1a tag over the body.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `W/"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

func respondSuccess(w http.ResponseWriter, r *http.Request, data any, start time.Time, cached bool) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	respondJSON(w, r, status, &models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	respondAPIError(w, r, status, models.NewAPIError(code, message))
}

func respondNotFound(w http.ResponseWriter, r *http.Request, what string) {
	respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, what+" not found", nil)
}

// validateRequest runs the struct rules and writes a 400 on failure.
func validateRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	if verr := validation.ValidateStruct(req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return false
	}
	return true
}

// cached serves the response for (route, params) from the response cache
// or computes and stores it. A result whose computation overlapped a
// snapshot clear is returned but not stored.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, route string, params any, compute func() any) {
	start := time.Now()
	gen := h.generation.Load()
	key := strconv.FormatUint(gen, 10) + ":" + cache.GenerateKey(route, params)
	if data, ok := h.cache.Get(key); ok {
		respondSuccess(w, r, data, start, true)
		return
	}

	data := compute()
	if h.generation.Load() == gen {
		h.cache.Set(key, data)
	}
	respondSuccess(w, r, data, start, false)
}

// clampLimit applies the configured page size bounds to list endpoints.
// Zero keeps the engine default.
func (h *Handler) clampLimit(limit int) int {
	if limit > h.config.API.MaxPageSize && h.config.API.MaxPageSize > 0 {
		return h.config.API.MaxPageSize
	}
	return limit
}

// queryParser reads typed query parameters and collects the ones that
// fail to parse, so a request reports every bad parameter at once.
type queryParser struct {
	r      *http.Request
	errors []*models.APIError
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{r: r}
}

func (p *queryParser) fail(key, value, want string) {
	p.errors = append(p.errors, models.NewAPIError(models.ErrCodeValidation,
		fmt.Sprintf("%s must be %s", key, want)).WithDetail("field", key).WithDetail("value", value))
}

func (p *queryParser) String(key string) string {
	return strings.TrimSpace(p.r.URL.Query().Get(key))
}

func (p *queryParser) Int(key string) int {
	raw := p.String(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, "an integer")
		return 0
	}
	return n
}

// PriceCeiling accepts "all" (no ceiling) or an integer.
func (p *queryParser) PriceCeiling(key string) int {
	if raw := p.String(key); raw == "all" {
		return 0
	}
	return p.Int(key)
}

func (p *queryParser) Float(key string) float64 {
	raw := p.String(key)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, "a number")
		return 0
	}
	return f
}

func (p *queryParser) Bool(key string) bool {
	raw := p.String(key)
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, "true or false")
		return false
	}
	return b
}

// Int64List parses a comma separated id list, skipping blanks.
func (p *queryParser) Int64List(key string) []int64 {
	raw := p.String(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			p.fail(key, part, "a comma separated list of integers")
			return nil
		}
		out = append(out, id)
	}
	return out
}

// Err returns the first parse failure, with the others listed in details.
func (p *queryParser) Err() *models.APIError {
	switch len(p.errors) {
	case 0:
		return nil
	case 1:
		return p.errors[0]
	}
	messages := make([]string, len(p.errors))
	for i, e := range p.errors {
		messages[i] = e.Message
	}
	return models.NewAPIError(models.ErrCodeValidation, strings.Join(messages, "; ")).
		WithDetail("fields", len(p.errors))
}

// bind finishes parsing and validates req. It writes a 400 and returns
// false when either step fails.
func (p *queryParser) bind(w http.ResponseWriter, req any) bool {
	if err := p.Err(); err != nil {
		respondAPIError(w, p.r, http.StatusBadRequest, err)
		return false
	}
	return validateRequest(w, p.r, req)
}
