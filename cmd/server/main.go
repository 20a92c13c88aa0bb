// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tl-toroama/catalog/internal/api"
	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/config"
	"github.com/tl-toroama/catalog/internal/database"
	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/recommend"
	"github.com/tl-toroama/catalog/internal/snapshot"
	"github.com/tl-toroama/catalog/internal/supervisor"
	"github.com/tl-toroama/catalog/internal/supervisor/services"
)

const shutdownTimeout = 10 * time.Second

//nolint:gocyclo // sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("snapshot_dir", cfg.Snapshot.Dir).
		Str("snapshot_format", cfg.Snapshot.Format).
		Bool("remote_snapshot", cfg.Snapshot.RemoteBaseURL != "").
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	// DuckDB is only needed to read Parquet snapshots.
	var db *database.DB
	if cfg.Snapshot.Format == config.FormatParquet {
		db, err = database.New(&cfg.Database)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing database")
			}
		}()
		logging.Info().Str("db_path", cfg.Database.Path).Msg("Database initialized successfully")
	}

	source, err := snapshot.NewSource(&cfg.Snapshot, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create snapshot source")
	}
	snap := snapshot.New(source, snapshot.WithLogger(logging.WithComponent("snapshot")))

	recCfg := recommend.DefaultConfig()
	recCfg.DefaultLimit = cfg.Recommend.DefaultLimit
	recCfg.MaxLimit = cfg.Recommend.MaxLimit
	recEngine, err := recommend.NewEngine(recCfg, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	engine := catalog.NewEngine(snap,
		catalog.WithLogger(logging.WithComponent("catalog")),
		catalog.WithRecommendEngine(recEngine),
	)

	handler, err := api.NewHandler(engine, snap, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}
	defer handler.Close()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler).Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer: initial load plus optional remote refresh.
	var fetcher services.Fetcher
	if cfg.Snapshot.RemoteBaseURL != "" {
		f, err := snapshot.NewFetcher(&cfg.Snapshot)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create snapshot fetcher")
		}
		fetcher = f
	}
	tree.AddDataService(services.NewSnapshotService(fetcher, handler, services.SnapshotServiceConfig{
		FetchOnStart:    cfg.Snapshot.FetchOnStart,
		RefreshInterval: cfg.Snapshot.RefreshInterval,
	}, logging.WithComponent("supervisor")))
	logging.Info().
		Bool("fetch_on_start", cfg.Snapshot.FetchOnStart).
		Dur("refresh_interval", cfg.Snapshot.RefreshInterval).
		Msg("Snapshot service added to supervisor tree")

	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("version", api.Version).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
