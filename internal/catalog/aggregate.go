// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/tl-toroama/catalog/internal/metrics"
)

// Circles returns every circle with its work count recomputed over
// available works, most works first. Stored counts are ignored.
func (e *Engine) Circles(ctx context.Context) []Circle {
	start := time.Now()
	counts := make(map[int64]int)
	for _, w := range e.available(ctx) {
		if w.HasCircle() {
			counts[w.CircleID]++
		}
	}

	circles := e.provider.Circles(ctx)
	out := make([]Circle, len(circles))
	for i, c := range circles {
		out[i] = c
		out[i].WorkCount = counts[c.ID]
	}
	slices.SortStableFunc(out, func(a, b Circle) int { return cmp.Compare(b.WorkCount, a.WorkCount) })

	metrics.RecordCatalogQuery("circles", time.Since(start), len(out))
	return out
}

// CircleWithWorks resolves a circle by exact name and returns it with its
// available works, newest first. The circle's WorkCount is len(Works).
func (e *Engine) CircleWithWorks(ctx context.Context, name string) CircleWorks {
	start := time.Now()
	var circle *Circle
	for _, c := range e.provider.Circles(ctx) {
		if c.Name == name {
			found := c
			circle = &found
			break
		}
	}
	if circle == nil {
		e.finish(ctx, "circle_with_works", start, nil)
		return CircleWorks{Works: []Work{}}
	}

	works := e.availableWhere(ctx, func(w *Work) bool { return w.CircleID == circle.ID })
	sortStable(works, byReleaseDesc)
	out := e.finish(ctx, "circle_with_works", start, works)
	circle.WorkCount = len(out)
	return CircleWorks{Circle: circle, Works: out}
}

// Actors aggregates cast names over available works, most works first.
func (e *Engine) Actors(ctx context.Context) []NameCount {
	start := time.Now()
	out := countNames(e.available(ctx), func(w *Work) []string { return w.Cast }, "")
	metrics.RecordCatalogQuery("actors", time.Since(start), len(out))
	return out
}

// Tags aggregates tags over available works, most works first.
func (e *Engine) Tags(ctx context.Context) []NameCount {
	start := time.Now()
	out := countNames(e.available(ctx), func(w *Work) []string { return w.Tags }, "")
	metrics.RecordCatalogQuery("tags", time.Since(start), len(out))
	return out
}

// PopularTags returns the limit most used tags.
func (e *Engine) PopularTags(ctx context.Context, limit int) []NameCount {
	return truncate(e.Tags(ctx), limitOr(limit, DefaultPopularTags))
}

// RelatedTags counts the tags that co-occur with tag, excluding tag itself.
func (e *Engine) RelatedTags(ctx context.Context, tag string, limit int) []NameCount {
	start := time.Now()
	works := e.availableWhere(ctx, func(w *Work) bool { return w.HasTag(tag) })
	out := truncate(countNames(works, func(w *Work) []string { return w.Tags }, tag), limitOr(limit, DefaultTagLimit))
	metrics.RecordCatalogQuery("related_tags", time.Since(start), len(out))
	return out
}

// WorksByActor returns available works whose cast includes name, newest first.
func (e *Engine) WorksByActor(ctx context.Context, name string) []Work {
	start := time.Now()
	works := e.availableWhere(ctx, func(w *Work) bool { return w.HasCast(name) })
	sortStable(works, byReleaseDesc)
	return e.finish(ctx, "works_by_actor", start, works)
}

// WorksByTag returns available works carrying tag, newest first.
func (e *Engine) WorksByTag(ctx context.Context, tag string) []Work {
	start := time.Now()
	works := e.availableWhere(ctx, func(w *Work) bool { return w.HasTag(tag) })
	sortStable(works, byReleaseDesc)
	return e.finish(ctx, "works_by_tag", start, works)
}

// countNames tallies names in first-seen order and sorts by count, stable.
func countNames(works []*Work, names func(*Work) []string, skip string) []NameCount {
	index := make(map[string]int)
	var out []NameCount
	for _, w := range works {
		for _, n := range names(w) {
			if n == skip && skip != "" {
				continue
			}
			if i, ok := index[n]; ok {
				out[i].Count++
				continue
			}
			index[n] = len(out)
			out = append(out, NameCount{Name: n, Count: 1})
		}
	}
	slices.SortStableFunc(out, func(a, b NameCount) int { return cmp.Compare(b.Count, a.Count) })
	if out == nil {
		out = []NameCount{}
	}
	return out
}
