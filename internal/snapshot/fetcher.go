// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tl-toroama/catalog/internal/config"
	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/metrics"
)

// ErrFetch wraps every remote download failure.
var ErrFetch = errors.New("snapshot fetch failed")

// RemoteFiles are the Parquet files published under {base}/parquet/.
var RemoteFiles = []string{WorksFile + ".parquet", CirclesFile + ".parquet"}

// maxSnapshotBytes bounds a single download.
const maxSnapshotBytes = 1 << 30

// FetchResult describes one downloaded file.
type FetchResult struct {
	File     string        `json:"file"`
	Path     string        `json:"path"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration"`
}

// Fetcher downloads the published Parquet snapshot into a local directory.
type Fetcher struct {
	baseURL string
	dir     string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[int64]
	logger  zerolog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// NewFetcher returns a Fetcher for cfg. With cfg.SafeURL the client refuses
// private, loopback and link-local destinations.
func NewFetcher(cfg *config.SnapshotConfig, opts ...FetcherOption) (*Fetcher, error) {
	base := strings.TrimRight(cfg.RemoteBaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("%w: remote base URL is not configured", ErrFetch)
	}

	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	limit := rate.Inf
	if cfg.FetchRate > 0 {
		limit = rate.Limit(cfg.FetchRate)
	}

	f := &Fetcher{
		baseURL: base,
		dir:     cfg.Dir,
		limiter: rate.NewLimiter(limit, 1),
		breaker: newBreaker(cfg.BreakerFailures, cfg.BreakerTimeout),
		logger:  logging.WithComponent("snapshot-fetcher"),
	}
	if cfg.SafeURL {
		sc := safeurl.GetConfigBuilder().
			SetTimeout(timeout).
			SetAllowedSchemes("http", "https").
			SetAllowedPorts(80, 443).
			Build()
		f.client = safeurl.Client(sc).Client
	} else {
		f.client = &http.Client{Timeout: timeout}
	}

	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// URL returns the remote location of file.
func (f *Fetcher) URL(file string) string {
	return f.baseURL + "/parquet/" + file
}

// Fetch downloads every RemoteFiles entry. It stops at the first failure;
// files already replaced stay replaced.
func (f *Fetcher) Fetch(ctx context.Context) ([]FetchResult, error) {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory %s: %w", f.dir, err)
	}

	results := make([]FetchResult, 0, len(RemoteFiles))
	for _, file := range RemoteFiles {
		if err := f.limiter.Wait(ctx); err != nil {
			return results, fmt.Errorf("%w: %s: %w", ErrFetch, file, err)
		}

		start := time.Now()
		n, err := f.breaker.Execute(func() (int64, error) {
			return f.download(ctx, file)
		})
		recordBreakerResult(err)
		if err != nil {
			f.logger.Error().Err(err).Str("file", file).Msg("Snapshot download failed")
			if errors.Is(err, ErrFetch) {
				return results, err
			}
			return results, fmt.Errorf("%w: %s: %w", ErrFetch, file, err)
		}

		res := FetchResult{
			File:     file,
			Path:     filepath.Join(f.dir, file),
			Bytes:    n,
			Duration: time.Since(start),
		}
		metrics.RecordSnapshotFetch(file, n, res.Duration)
		f.logger.Info().Str("file", file).Int64("bytes", n).Dur("duration", res.Duration).Msg("Snapshot file downloaded")
		results = append(results, res)
	}
	return results, nil
}

// download writes the remote file to a temp file in the target directory
// and renames it into place.
func (f *Fetcher) download(ctx context.Context, file string) (int64, error) {
	url := f.URL(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s returned status %d", ErrFetch, url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.dir, file+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, maxSnapshotBytes+1))
	if err != nil {
		cleanup()
		return 0, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	if n > maxSnapshotBytes {
		cleanup()
		return 0, fmt.Errorf("%w: %s exceeds %d bytes", ErrFetch, url, maxSnapshotBytes)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return 0, fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(f.dir, file)); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to move %s into place: %w", file, err)
	}
	return n, nil
}
