// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"

	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/config"
	"github.com/tl-toroama/catalog/internal/database"
	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/search"
	"github.com/tl-toroama/catalog/internal/sitemap"
	"github.com/tl-toroama/catalog/internal/snapshot"
)

func runFetch(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	dir := fs.String("dir", cfg.Snapshot.Dir, "destination directory")
	base := fs.String("base-url", cfg.Snapshot.RemoteBaseURL, "public bucket base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snapCfg := cfg.Snapshot
	snapCfg.Dir = *dir
	snapCfg.RemoteBaseURL = *base

	fetcher, err := snapshot.NewFetcher(&snapCfg)
	if err != nil {
		return err
	}
	results, err := fetcher.Fetch(ctx)

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tBYTES\tDURATION\tPATH")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.File, r.Bytes, r.Duration.Round(time.Millisecond), r.Path)
	}
	if ferr := tw.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runConvert(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	in := fs.String("in", cfg.Snapshot.Dir, "directory holding works.json and circles.json")
	out := fs.String("out", cfg.Snapshot.Dir, "directory for the Parquet files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	converted := 0
	for _, base := range []string{snapshot.WorksFile, snapshot.CirclesFile} {
		src := filepath.Join(*in, base+".json")
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			logging.Warn().Str("file", src).Msg("Skipping missing snapshot file")
			continue
		}
		dst := filepath.Join(*out, base+".parquet")
		n, err := db.ConvertJSONToParquet(ctx, src, dst)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: %d rows\n", dst, n)
		converted++
	}
	if converted == 0 {
		return fmt.Errorf("no snapshot files found in %s", *in)
	}
	return nil
}

func runIndex(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	output := fs.String("o", "-", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	items := search.Project(engine.AllWorks(ctx))
	return writeOutput(*output, stdout, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(items)
	})
}

func runSitemap(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("sitemap", flag.ContinueOnError)
	output := fs.String("o", "-", "output file, - for stdout")
	base := fs.String("base-url", cfg.Sitemap.BaseURL, "site base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	gen := sitemap.NewGenerator(*base, engine)
	return writeOutput(*output, stdout, func(w io.Writer) error {
		counts, err := gen.Write(ctx, w)
		if err != nil {
			return err
		}
		logging.Info().
			Int("urls", counts.Total()).
			Int("works", counts.Works).
			Int("circles", counts.Circles).
			Msg("Sitemap written")
		return nil
	})
}

func runStats(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, cleanup, err := openSnapshot(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	stats := snap.Warm(ctx)
	if *asJSON {
		return json.NewEncoder(stdout).Encode(stats)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "format\t%s\n", stats.Format)
	fmt.Fprintf(tw, "works\t%d\n", stats.Works)
	fmt.Fprintf(tw, "circles\t%d\n", stats.Circles)
	return tw.Flush()
}

// openSnapshot builds a Snapshot over the configured source. cleanup closes
// the DuckDB handle when one was opened for Parquet.
func openSnapshot(cfg *config.Config) (*snapshot.Snapshot, func(), error) {
	var db *database.DB
	cleanup := func() {}
	if cfg.Snapshot.Format == config.FormatParquet {
		var err error
		if db, err = database.New(&cfg.Database); err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing database")
			}
		}
	}

	source, err := snapshot.NewSource(&cfg.Snapshot, db)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return snapshot.New(source), cleanup, nil
}

func openEngine(cfg *config.Config) (*catalog.Engine, func(), error) {
	snap, cleanup, err := openSnapshot(cfg)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewEngine(snap), cleanup, nil
}

// writeOutput runs write against stdout for "-" and against a freshly
// created file otherwise.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // operator-supplied output path
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}
