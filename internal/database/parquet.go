// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package database

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/metrics"
)

// quoteLiteral renders s as a SQL string literal. read_parquet and COPY take
// the file name as a literal, not as a bind parameter.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// tableLabel names a snapshot file in metrics: "works" for data/works.parquet.
func tableLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadParquet scans the Parquet file at path and decodes every row into T.
// Each row is serialized with to_json so that T's JSON decoding rules apply.
func ReadParquet[T any](ctx context.Context, db *DB, path string) (out []T, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("read_parquet", tableLabel(path), time.Since(start), err)
	}()

	query := fmt.Sprintf("SELECT CAST(to_json(w) AS VARCHAR) FROM read_parquet(%s) w", quoteLiteral(path))
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet %s: %w", path, err)
	}
	defer closeWithLog(rows, "rows")

	out = make([]T, 0)
	skipped := 0
	for row := 0; rows.Next(); row++ {
		var raw string
		if err = rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan parquet row: %w", err)
		}
		var rec T
		if derr := json.Unmarshal([]byte(raw), &rec); derr != nil {
			if skipped == 0 {
				logging.Warn().Err(derr).Str("path", path).Int("row", row).Msg("Skipping undecodable parquet row")
			}
			skipped++
			continue
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parquet rows: %w", err)
	}

	logging.Debug().Str("path", path).Int("rows", len(out)).Int("skipped", skipped).Dur("duration", time.Since(start)).Msg("Parquet file read")
	return out, nil
}

// CountRows returns the number of rows in the Parquet file at path.
func (db *DB) CountRows(ctx context.Context, path string) (n int64, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("count", tableLabel(path), time.Since(start), err)
	}()

	query := fmt.Sprintf("SELECT COUNT(*) FROM read_parquet(%s)", quoteLiteral(path))
	if err = db.conn.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", path, err)
	}
	return n, nil
}

// ConvertJSONToParquet writes the JSON array file at src as a zstd
// compressed Parquet file at dst and returns the number of rows written.
func (db *DB) ConvertJSONToParquet(ctx context.Context, src, dst string) (n int64, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("copy", tableLabel(dst), time.Since(start), err)
	}()

	query := fmt.Sprintf("COPY (SELECT * FROM read_json_auto(%s)) TO %s (FORMAT PARQUET, COMPRESSION ZSTD)",
		quoteLiteral(src), quoteLiteral(dst))
	if _, err = db.conn.ExecContext(ctx, query); err != nil {
		return 0, fmt.Errorf("failed to convert %s to parquet: %w", src, err)
	}
	return db.CountRows(ctx, dst)
}
