// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/config"
	"github.com/tl-toroama/catalog/internal/database"
	"github.com/tl-toroama/catalog/internal/logging"
)

// Snapshot file base names.
const (
	WorksFile   = "works"
	CirclesFile = "circles"
)

// Source reads raw snapshot records. A missing file must surface as an
// error wrapping os.ErrNotExist.
type Source interface {
	LoadWorks(ctx context.Context) ([]catalog.WorkRecord, error)
	LoadCircles(ctx context.Context) ([]catalog.CircleRecord, error)
	Format() string
}

// NewSource returns the source for cfg.Format. db is required for Parquet.
func NewSource(cfg *config.SnapshotConfig, db *database.DB) (Source, error) {
	switch cfg.Format {
	case config.FormatJSON, "":
		return &JSONSource{Dir: cfg.Dir}, nil
	case config.FormatParquet:
		if db == nil {
			return nil, fmt.Errorf("parquet snapshot requires a database handle")
		}
		return &ParquetSource{Dir: cfg.Dir, DB: db}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", cfg.Format)
	}
}

// JSONSource reads works.json and circles.json from Dir.
type JSONSource struct {
	Dir string
}

func (s *JSONSource) Format() string { return config.FormatJSON }

func (s *JSONSource) LoadWorks(ctx context.Context) ([]catalog.WorkRecord, error) {
	return readJSON[catalog.WorkRecord](ctx, filepath.Join(s.Dir, WorksFile+".json"))
}

func (s *JSONSource) LoadCircles(ctx context.Context) ([]catalog.CircleRecord, error) {
	return readJSON[catalog.CircleRecord](ctx, filepath.Join(s.Dir, CirclesFile+".json"))
}

func readJSON[T any](ctx context.Context, path string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the configured snapshot directory
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	records := make([]T, 0, len(raws))
	skipped := 0
	for i, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			if skipped == 0 {
				logging.Warn().Err(err).Str("path", path).Int("index", i).Msg("Skipping malformed snapshot record")
			}
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		logging.Warn().Str("path", path).Int("skipped", skipped).Int("loaded", len(records)).Msg("Snapshot file had malformed records")
	}
	return records, nil
}

// ParquetSource reads works.parquet and circles.parquet from Dir via DuckDB.
type ParquetSource struct {
	Dir string
	DB  *database.DB
}

func (s *ParquetSource) Format() string { return config.FormatParquet }

func (s *ParquetSource) LoadWorks(ctx context.Context) ([]catalog.WorkRecord, error) {
	return readParquet[catalog.WorkRecord](ctx, s.DB, filepath.Join(s.Dir, WorksFile+".parquet"))
}

func (s *ParquetSource) LoadCircles(ctx context.Context) ([]catalog.CircleRecord, error) {
	return readParquet[catalog.CircleRecord](ctx, s.DB, filepath.Join(s.Dir, CirclesFile+".parquet"))
}

func readParquet[T any](ctx context.Context, db *database.DB, path string) ([]T, error) {
	// DuckDB reports a missing file as a generic IO error.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return database.ReadParquet[T](ctx, db, path)
}
