// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tl-toroama/catalog/internal/cache"
	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/config"
	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/middleware"
	"github.com/tl-toroama/catalog/internal/search"
	"github.com/tl-toroama/catalog/internal/sitemap"
	"github.com/tl-toroama/catalog/internal/snapshot"
)

// Version is reported by the health endpoint. Set at build time with
// -ldflags "-X github.com/tl-toroama/catalog/internal/api.Version=...".
var Version = "dev"

// Snapshotter is the part of *snapshot.Snapshot the handlers use.
type Snapshotter interface {
	Warm(ctx context.Context) snapshot.Stats
	Clear()
	Stats() snapshot.Stats
}

// Handler serves the catalog API. Derived indexes (search projection,
// name suggestions) are built on first use and dropped when the snapshot
// is cleared.
type Handler struct {
	engine   *catalog.Engine
	snap     Snapshotter
	matcher  *search.Matcher
	sitemap  *sitemap.Generator
	cache    cache.Cacher
	perfMon  *middleware.PerformanceMonitor
	config   *config.Config
	start    time.Time
	index    lazy[search.Index]
	suggest  lazy[cache.Trie]
	clearMux sync.Mutex

	// generation is part of every response cache key. ClearSnapshot bumps
	// it, so a response computed from the previous snapshot is never served
	// after the clear.
	generation atomic.Uint64
}

// NewHandler wires the handler dependencies. cfg supplies the search
// threshold, page sizes, cache policy and sitemap base URL.
func NewHandler(engine *catalog.Engine, snap Snapshotter, cfg *config.Config) (*Handler, error) {
	matcher, err := search.NewMatcher(cfg.Search.Threshold)
	if err != nil {
		return nil, err
	}
	return &Handler{
		engine:  engine,
		snap:    snap,
		matcher: matcher,
		sitemap: sitemap.NewGenerator(cfg.Sitemap.BaseURL, engine),
		cache:   cache.NewCacher(&cfg.Cache),
		perfMon: middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowThreshold),
		config:  cfg,
		start:   time.Now(),
	}, nil
}

// Close releases background resources held by the response cache.
func (h *Handler) Close() {
	if c, ok := h.cache.(interface{ Close() }); ok {
		c.Close()
	}
}

// searchIndex returns the projection of every available work. The build
// ignores request cancellation so a dropped client cannot memoize an empty
// index.
func (h *Handler) searchIndex(ctx context.Context) *search.Index {
	ctx = context.WithoutCancel(ctx)
	return h.index.get(func() *search.Index {
		return search.NewIndex(search.Project(h.engine.AllWorks(ctx)))
	})
}

// suggester returns the name trie over actors, tags and circles.
func (h *Handler) suggester(ctx context.Context) *cache.Trie {
	ctx = context.WithoutCancel(ctx)
	return h.suggest.get(func() *cache.Trie {
		return cache.BuildSuggester(h.engine.Actors(ctx), h.engine.Tags(ctx), h.engine.Circles(ctx))
	})
}

// ClearSnapshot drops the snapshot memo, every derived index and the
// response cache, then reloads the snapshot.
func (h *Handler) ClearSnapshot(ctx context.Context) snapshot.Stats {
	h.clearMux.Lock()
	defer h.clearMux.Unlock()

	h.snap.Clear()
	h.index.reset()
	h.suggest.reset()
	h.generation.Add(1)
	h.cache.Clear()

	stats := h.snap.Warm(ctx)
	logging.Ctx(ctx).Info().
		Int("works", stats.Works).
		Int("circles", stats.Circles).
		Msg("Snapshot cleared and reloaded")
	return stats
}

// lazy memoizes one derived value behind a mutex with a lock-free read
// path once built.
type lazy[T any] struct {
	mu sync.Mutex
	v  atomic.Pointer[T]
}

func (l *lazy[T]) get(build func() *T) *T {
	if v := l.v.Load(); v != nil {
		return v
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if v := l.v.Load(); v != nil {
		return v
	}
	v := build()
	l.v.Store(v)
	return v
}

func (l *lazy[T]) reset() {
	l.mu.Lock()
	l.v.Store(nil)
	l.mu.Unlock()
}
