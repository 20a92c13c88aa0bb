// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tl-toroama/catalog/internal/snapshot"
)

// Fetcher downloads a fresh snapshot. *snapshot.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context) ([]snapshot.FetchResult, error)
}

// Reloader drops the memoized snapshot and everything derived from it,
// then loads it again. *api.Handler implements it.
type Reloader interface {
	ClearSnapshot(ctx context.Context) snapshot.Stats
}

// SnapshotServiceConfig controls the snapshot lifecycle.
type SnapshotServiceConfig struct {
	// FetchOnStart downloads the remote snapshot before the first load.
	FetchOnStart bool

	// RefreshInterval re-fetches and reloads periodically. Zero loads once.
	RefreshInterval time.Duration

	// FetchTimeout bounds one fetch of every remote file.
	FetchTimeout time.Duration
}

// SnapshotService warms the snapshot at startup and optionally keeps it
// fresh. A failed fetch is logged and the local files are served instead.
type SnapshotService struct {
	fetcher  Fetcher
	reloader Reloader
	config   SnapshotServiceConfig
	logger   zerolog.Logger
	name     string
}

// NewSnapshotService creates the service. fetcher may be nil when no
// remote snapshot is configured.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSnapshotService(fetcher Fetcher, reloader Reloader, cfg SnapshotServiceConfig, logger zerolog.Logger) *SnapshotService {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Minute
	}
	return &SnapshotService{
		fetcher:  fetcher,
		reloader: reloader,
		config:   cfg,
		logger:   logger.With().Str("service", "snapshot").Logger(),
		name:     "snapshot-service",
	}
}

// Serve implements suture.Service. Without a refresh interval it returns
// suture.ErrDoNotRestart once the snapshot is loaded.
func (s *SnapshotService) Serve(ctx context.Context) error {
	if s.config.FetchOnStart {
		s.fetch(ctx)
	}
	s.reload(ctx)

	if s.config.RefreshInterval <= 0 || s.fetcher == nil {
		return suture.ErrDoNotRestart
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if s.fetch(ctx) {
				s.reload(ctx)
			}
		}
	}
}

// fetch reports whether new files were downloaded.
func (s *SnapshotService) fetch(ctx context.Context) bool {
	if s.fetcher == nil {
		return false
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	start := time.Now()
	results, err := s.fetcher.Fetch(fetchCtx)
	if err != nil {
		s.logger.Warn().Err(err).Int("files", len(results)).Msg("snapshot fetch failed, serving local files")
		return false
	}
	s.logger.Info().
		Int("files", len(results)).
		Dur("duration", time.Since(start)).
		Msg("snapshot fetched")
	return true
}

func (s *SnapshotService) reload(ctx context.Context) {
	stats := s.reloader.ClearSnapshot(ctx)
	s.logger.Info().
		Str("format", stats.Format).
		Int("works", stats.Works).
		Int("circles", stats.Circles).
		Msg("snapshot loaded")
}

// String names the service in supervisor events.
func (s *SnapshotService) String() string {
	return s.name
}
