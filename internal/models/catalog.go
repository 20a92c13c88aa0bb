// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package models

import (
	"time"

	"github.com/tl-toroama/catalog/internal/cache"
	"github.com/tl-toroama/catalog/internal/catalog"
	"github.com/tl-toroama/catalog/internal/search"
	"github.com/tl-toroama/catalog/internal/snapshot"
)

// WorkDetail is a work page: the work plus every related list shown
// beside it.
type WorkDetail struct {
	Work         catalog.Work   `json:"work"`
	Related      []catalog.Work `json:"related"`
	CircleWorks  []catalog.Work `json:"circle_works"`
	ActorWorks   []catalog.Work `json:"actor_works"`
	MainActor    string         `json:"main_actor,omitempty"`
	SimilarWorks []catalog.Work `json:"similar_works"`
}

// TagDetail is a tag page: its works and co-occurring tags.
type TagDetail struct {
	Tag         string              `json:"tag"`
	Works       []catalog.Work      `json:"works"`
	RelatedTags []catalog.NameCount `json:"related_tags"`
}

// ActorDetail is a voice actor page.
type ActorDetail struct {
	Actor string         `json:"actor"`
	Works []catalog.Work `json:"works"`
}

// SearchResponse is one search pipeline run.
type SearchResponse struct {
	Items []search.Item `json:"items"`
	Total int           `json:"total"`
	Count int           `json:"count"`
}

// SuggestResponse lists autocomplete candidates for a prefix.
type SuggestResponse struct {
	Prefix      string             `json:"prefix"`
	Suggestions []cache.Suggestion `json:"suggestions"`
}

// HealthResponse reports process and snapshot state.
type HealthResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	Uptime    float64        `json:"uptime_seconds"`
	Timestamp time.Time      `json:"timestamp"`
	Snapshot  snapshot.Stats `json:"snapshot"`
	Cache     cache.Stats    `json:"cache"`
}

// SnapshotClearResponse reports what a snapshot reset dropped and reloaded.
type SnapshotClearResponse struct {
	Cleared  bool           `json:"cleared"`
	Snapshot snapshot.Stats `json:"snapshot"`
}
