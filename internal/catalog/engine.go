// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/metrics"
	"github.com/tl-toroama/catalog/internal/recommend"
)

// Query defaults.
const (
	DefaultListLimit      = 20
	DefaultRelatedLimit   = 4
	DefaultTagLimit       = 10
	DefaultPopularTags    = 20
	DefaultBargainPrice   = 500
	DefaultMinRating      = 4.5
	DefaultSaleBrowseSize = 200

	// missingRank orders works without a rank after every ranked work.
	missingRank = 9999
)

// Provider supplies the snapshot collections. Implementations return the
// same read-only slices on every call; the engine never mutates them.
type Provider interface {
	Works(ctx context.Context) []Work
	Circles(ctx context.Context) []Circle
}

// Engine answers catalog queries. It holds no state beyond the provider
// and is safe for concurrent use.
type Engine struct {
	provider  Provider
	recommend *recommend.Engine
	logger    zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger overrides the component logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithRecommendEngine overrides the relevance plan runner.
func WithRecommendEngine(r *recommend.Engine) EngineOption {
	return func(e *Engine) { e.recommend = r }
}

// NewEngine returns an Engine reading from provider.
func NewEngine(provider Provider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		logger:   logging.WithComponent("catalog"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.recommend == nil {
		// DefaultConfig always validates.
		e.recommend, _ = recommend.NewEngine(recommend.DefaultConfig(), e.logger)
	}
	return e
}

// available returns pointers to every available work. The returned slice is
// freshly allocated so callers may sort it; the works themselves are shared
// and must not be modified.
func (e *Engine) available(ctx context.Context) []*Work {
	works := e.provider.Works(ctx)
	out := make([]*Work, 0, len(works))
	for i := range works {
		if works[i].Available {
			out = append(out, &works[i])
		}
	}
	return out
}

func (e *Engine) availableWhere(ctx context.Context, keep func(*Work) bool) []*Work {
	all := e.available(ctx)
	out := all[:0]
	for _, w := range all {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func (e *Engine) circleNames(ctx context.Context) map[int64]string {
	circles := e.provider.Circles(ctx)
	names := make(map[int64]string, len(circles))
	for _, c := range circles {
		names[c.ID] = c.Name
	}
	return names
}

// finish copies works out with circle names attached and records the query.
func (e *Engine) finish(ctx context.Context, query string, start time.Time, works []*Work) []Work {
	names := e.circleNames(ctx)
	out := make([]Work, len(works))
	for i, w := range works {
		out[i] = *w
		out[i].CircleName = ""
		if w.HasCircle() {
			out[i].CircleName = names[w.CircleID]
		}
	}
	metrics.RecordCatalogQuery(query, time.Since(start), len(out))
	return out
}

func limitOr(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

func truncate[T any](s []T, limit int) []T {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// byReleaseDesc orders by ISO release date, newest first, comparing the
// strings lexically. Missing dates sort last.
func byReleaseDesc(a, b *Work) int {
	return strings.Compare(b.ReleaseDate, a.ReleaseDate)
}

func sortStable(works []*Work, cmpFn func(a, b *Work) int) {
	slices.SortStableFunc(works, cmpFn)
}

// sameRank compares two optional ranks by presence and value.
func sameRank(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// byCompositeRank puts DLsite-ranked works first (by DLsite rank), then
// FANZA-only works (by FANZA rank); equal ranks fall back to newest first.
func byCompositeRank(a, b *Work) int {
	aDL := a.Listings.DLsite.Rank != nil
	bDL := b.Listings.DLsite.Rank != nil

	switch {
	case aDL && bDL:
		if !sameRank(a.Listings.DLsite.Rank, b.Listings.DLsite.Rank) {
			return cmp.Compare(a.Listings.RankOr(DLsite, missingRank), b.Listings.RankOr(DLsite, missingRank))
		}
	case aDL:
		return -1
	case bDL:
		return 1
	default:
		if !sameRank(a.Listings.FANZA.Rank, b.Listings.FANZA.Rank) {
			return cmp.Compare(a.Listings.RankOr(FANZA, missingRank), b.Listings.RankOr(FANZA, missingRank))
		}
	}
	return byReleaseDesc(a, b)
}

// byPopularity orders by preferred rating, then newest first.
func byPopularity(a, b *Work) int {
	if c := cmp.Compare(b.Listings.PreferredRating(), a.Listings.PreferredRating()); c != 0 {
		return c
	}
	return byReleaseDesc(a, b)
}
