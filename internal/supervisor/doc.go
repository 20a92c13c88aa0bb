// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package supervisor provides suture-based process supervision for the
catalog server.

The tree has two layers under one root:

	catalog (root)
	├── data-layer
	│   └── snapshot-service   fetch, warm, periodic reload
	└── api-layer
	    └── http-server        chi router

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog into the slog bridge of the logging package, so they share the
zerolog output of the rest of the process.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewSnapshotService(fetcher, handler, snapCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)

A snapshot service without a refresh interval returns
suture.ErrDoNotRestart after the first load and leaves the tree.
*/
package supervisor
