// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

// Command catalogctl runs offline catalog maintenance: downloading the
// published snapshot, converting JSON exports to Parquet, and rendering
// the static search index and sitemap from local snapshot files.
//
//	catalogctl fetch
//	catalogctl convert -in data -out data
//	catalogctl index -o public/search-index.json
//	catalogctl sitemap -o public/sitemap.xml
//	catalogctl stats
//
// Settings come from the same configuration layers as the server
// (SNAPSHOT_DIR, SNAPSHOT_FORMAT, SITEMAP_BASE_URL and so on).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tl-toroama/catalog/internal/config"
	"github.com/tl-toroama/catalog/internal/logging"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error
}

var commands = []command{
	{"fetch", "download the published Parquet snapshot into SNAPSHOT_DIR", runFetch},
	{"convert", "convert works.json and circles.json to Parquet", runConvert},
	{"index", "write the search index projection as JSON", runIndex},
	{"sitemap", "write sitemap.xml", runSitemap},
	{"stats", "load the snapshot and print counts", runStats},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		printUsage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load configuration: %v\n", err)
		return 1
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, cfg, args[1:], stdout); err != nil {
		logging.Error().Err(err).Str("command", cmd.name).Msg("Command failed")
		return 1
	}
	return 0
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: catalogctl <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
}
