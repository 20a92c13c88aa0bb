// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/config"
)

// testDBSemaphore serializes DuckDB use across tests. Concurrent CGO calls
// from many parallel tests can hang under CI resource pressure, so the
// semaphore is held for the whole test, not just for New.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("New() error = %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatal("timed out opening DuckDB")
		return nil
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestQuoteLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"data/works.parquet", "'data/works.parquet'"},
		{"it's.parquet", "'it''s.parquet'"},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := quoteLiteral(tt.in); got != tt.want {
			t.Errorf("quoteLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableLabel(t *testing.T) {
	t.Parallel()

	if got := tableLabel("/srv/data/works.parquet"); got != "works" {
		t.Errorf("tableLabel = %q, want works", got)
	}
	if got := tableLabel("circles"); got != "circles" {
		t.Errorf("tableLabel = %q, want circles", got)
	}
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if db.Conn() == nil {
		t.Error("Conn() returned nil")
	}
}

func TestConvertAndReadParquet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	src := writeFile(t, dir, "works.json", `[
		{"id": 1, "title": "First", "genre": "音声", "ai_tags": ["癒し", "耳かき"], "price_dlsite": 1100, "is_available": true},
		{"id": 2, "title": "Second", "genre": "ゲーム", "ai_tags": [], "price_dlsite": 2200, "is_available": false}
	]`)
	dst := filepath.Join(dir, "works.parquet")

	n, err := db.ConvertJSONToParquet(ctx, src, dst)
	if err != nil {
		t.Fatalf("ConvertJSONToParquet() error = %v", err)
	}
	if n != 2 {
		t.Errorf("rows written = %d, want 2", n)
	}

	count, err := db.CountRows(ctx, dst)
	if err != nil || count != 2 {
		t.Fatalf("CountRows() = %d, %v", count, err)
	}

	records, err := ReadParquet[catalog.WorkRecord](ctx, db, dst)
	if err != nil {
		t.Fatalf("ReadParquet() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	works := catalog.WorksFromRecords(records)
	byID := map[int64]catalog.Work{}
	for _, w := range works {
		byID[w.ID] = w
	}

	first := byID[1]
	if first.Title != "First" || len(first.Tags) != 2 || first.Tags[1] != "耳かき" {
		t.Errorf("work 1 = %+v", first)
	}
	if first.Listings.DLsite.Price == nil || *first.Listings.DLsite.Price != 1100 {
		t.Errorf("work 1 price = %v", first.Listings.DLsite.Price)
	}
	if !first.Class.GenreAudio {
		t.Error("work 1 not classified as audio")
	}
	if byID[2].Available {
		t.Error("work 2 should be unavailable")
	}
}

func TestReadParquetMissingFile(t *testing.T) {
	db := setupTestDB(t)

	_, err := ReadParquet[catalog.CircleRecord](context.Background(), db, filepath.Join(t.TempDir(), "missing.parquet"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
