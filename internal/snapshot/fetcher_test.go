// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package snapshot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tl-toroama/catalog/internal/config"
)

func fetchConfig(dir, base string) *config.SnapshotConfig {
	return &config.SnapshotConfig{
		Dir:             dir,
		Format:          config.FormatParquet,
		RemoteBaseURL:   base,
		FetchTimeout:    5 * time.Second,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}
}

func TestFetcherDownloadsAllFiles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/parquet/works.parquet":
			_, _ = w.Write([]byte("works-bytes"))
		case "/parquet/circles.parquet":
			_, _ = w.Write([]byte("circles"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "data")
	f, err := NewFetcher(fetchConfig(dir, srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}

	results, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(results) != 2 || results[0].Bytes != int64(len("works-bytes")) {
		t.Errorf("results = %+v", results)
	}

	data, err := os.ReadFile(filepath.Join(dir, "works.parquet"))
	if err != nil || string(data) != "works-bytes" {
		t.Errorf("works.parquet = %q, %v", data, err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFetcherURL(t *testing.T) {
	t.Parallel()

	f, err := NewFetcher(fetchConfig(t.TempDir(), "https://pub.example.com/"))
	if err != nil {
		t.Fatal(err)
	}
	if got := f.URL("works.parquet"); got != "https://pub.example.com/parquet/works.parquet" {
		t.Errorf("URL = %q", got)
	}
}

func TestFetcherRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewFetcher(fetchConfig(t.TempDir(), ""))
	if !errors.Is(err, ErrFetch) {
		t.Errorf("err = %v, want ErrFetch", err)
	}
}

func TestFetcherStatusErrorKeepsExistingFile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "works.parquet")
	if err := os.WriteFile(existing, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := NewFetcher(fetchConfig(dir, srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.Fetch(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if data, _ := os.ReadFile(existing); string(data) != "old" {
		t.Errorf("existing file replaced: %q", data)
	}
}

func TestFetcherCircuitOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f, err := NewFetcher(fetchConfig(t.TempDir(), srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for range 2 {
		if _, err := f.Fetch(ctx); !errors.Is(err, ErrFetch) {
			t.Fatalf("err = %v, want ErrFetch", err)
		}
	}

	_, err = f.Fetch(ctx)
	if !errors.Is(err, gobreaker.ErrOpenState) || !errors.Is(err, ErrFetch) {
		t.Errorf("err = %v, want open circuit wrapped in ErrFetch", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hits = %d, want 2", n)
	}
}

func TestFetcherSafeURLBlocksLoopback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	cfg := fetchConfig(t.TempDir(), srv.URL)
	cfg.SafeURL = true
	f, err := NewFetcher(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Error("expected loopback download to be refused")
	}
}
