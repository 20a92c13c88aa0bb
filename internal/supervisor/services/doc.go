// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

// Package services adapts catalog components to suture.Service.
//
// HTTPServerService turns ListenAndServe into a context-aware Serve with a
// bounded drain on shutdown. SnapshotService owns the snapshot lifecycle:
// an optional remote fetch, the initial load and periodic refreshes.
package services
