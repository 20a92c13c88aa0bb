// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package snapshot

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/metrics"
)

// memo is a load-once slot. The fast path is a single atomic load.
type memo[T any] struct {
	mu       sync.Mutex
	val      atomic.Pointer[[]T]
	loadedAt atomic.Pointer[time.Time]
}

func (m *memo[T]) get(load func() ([]T, bool)) []T {
	if p := m.val.Load(); p != nil {
		return *p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.val.Load(); p != nil {
		return *p
	}

	v, keep := load()
	if keep {
		now := time.Now()
		m.val.Store(&v)
		m.loadedAt.Store(&now)
	}
	return v
}

func (m *memo[T]) reset() {
	m.mu.Lock()
	m.val.Store(nil)
	m.loadedAt.Store(nil)
	m.mu.Unlock()
}

func (m *memo[T]) peek() (n int, loaded bool, at time.Time) {
	p := m.val.Load()
	if p == nil {
		return 0, false, time.Time{}
	}
	if t := m.loadedAt.Load(); t != nil {
		at = *t
	}
	return len(*p), true, at
}

// Snapshot memoizes the catalog collections read from a Source. It
// implements catalog.Provider.
type Snapshot struct {
	source  Source
	logger  zerolog.Logger
	works   memo[catalog.Work]
	circles memo[catalog.Circle]
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithLogger overrides the component logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Snapshot) { s.logger = logger }
}

// New returns a Snapshot that loads lazily from source.
func New(source Source, opts ...Option) *Snapshot {
	s := &Snapshot{
		source: source,
		logger: logging.WithComponent("snapshot"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Works returns every work in the snapshot, loading it on first use. The
// same slice is returned on every call and must not be modified.
func (s *Snapshot) Works(ctx context.Context) []catalog.Work {
	return s.works.get(func() ([]catalog.Work, bool) {
		start := time.Now()
		records, err := s.source.LoadWorks(ctx)
		if err != nil {
			return []catalog.Work{}, s.degrade(ctx, WorksFile, err)
		}
		works := catalog.WorksFromRecords(records)
		s.loaded(WorksFile, start, len(works))
		return works, true
	})
}

// Circles returns every circle in the snapshot, loading it on first use.
func (s *Snapshot) Circles(ctx context.Context) []catalog.Circle {
	return s.circles.get(func() ([]catalog.Circle, bool) {
		start := time.Now()
		records, err := s.source.LoadCircles(ctx)
		if err != nil {
			return []catalog.Circle{}, s.degrade(ctx, CirclesFile, err)
		}
		circles := catalog.CirclesFromRecords(records)
		s.loaded(CirclesFile, start, len(circles))
		return circles, true
	})
}

func (s *Snapshot) loaded(collection string, start time.Time, n int) {
	d := time.Since(start)
	metrics.RecordSnapshotLoad(collection, s.source.Format(), d, n)
	s.logger.Info().
		Str("collection", collection).
		Str("format", s.source.Format()).
		Int("records", n).
		Dur("duration", d).
		Msg("Snapshot collection loaded")
}

// degrade logs a load failure and reports whether the empty result should
// be memoized. A canceled caller is not memoized so the next call retries.
func (s *Snapshot) degrade(ctx context.Context, collection string, err error) bool {
	switch {
	case ctx.Err() != nil:
		s.logger.Debug().Err(err).Str("collection", collection).Msg("Snapshot load canceled")
		return false
	case errors.Is(err, os.ErrNotExist):
		metrics.RecordSnapshotFailure(collection, "missing")
		s.logger.Warn().Err(err).Str("collection", collection).Msg("Snapshot file not found, serving empty collection")
	default:
		metrics.RecordSnapshotFailure(collection, "read")
		s.logger.Error().Err(err).Str("collection", collection).Msg("Snapshot load failed, serving empty collection")
	}
	return true
}

// Warm loads both collections.
func (s *Snapshot) Warm(ctx context.Context) Stats {
	s.Works(ctx)
	s.Circles(ctx)
	return s.Stats()
}

// Clear drops both memoized collections; the next read reloads them.
func (s *Snapshot) Clear() {
	s.works.reset()
	s.circles.reset()
	s.logger.Info().Msg("Snapshot cache cleared")
}

// Stats describes what is currently memoized without triggering a load.
type Stats struct {
	Format          string    `json:"format"`
	Works           int       `json:"works"`
	Circles         int       `json:"circles"`
	WorksLoaded     bool      `json:"works_loaded"`
	CirclesLoaded   bool      `json:"circles_loaded"`
	WorksLoadedAt   time.Time `json:"works_loaded_at"`
	CirclesLoadedAt time.Time `json:"circles_loaded_at"`
}

// Stats returns the current memo state.
func (s *Snapshot) Stats() Stats {
	st := Stats{Format: s.source.Format()}
	st.Works, st.WorksLoaded, st.WorksLoadedAt = s.works.peek()
	st.Circles, st.CirclesLoaded, st.CirclesLoadedAt = s.circles.peek()
	return st
}
