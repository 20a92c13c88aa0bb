// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import "context"

// AllWorkIDs lists the ids of available works in snapshot order.
func (e *Engine) AllWorkIDs(ctx context.Context) []int64 {
	works := e.available(ctx)
	ids := make([]int64, len(works))
	for i, w := range works {
		ids[i] = w.ID
	}
	return ids
}

// AllRJCodes lists the DLsite product ids of available works.
func (e *Engine) AllRJCodes(ctx context.Context) []string {
	codes := []string{}
	for _, w := range e.available(ctx) {
		if w.Listings.DLsite.ProductID != "" {
			codes = append(codes, w.Listings.DLsite.ProductID)
		}
	}
	return codes
}

// AllCircleNames lists circles with at least one available work.
func (e *Engine) AllCircleNames(ctx context.Context) []string {
	withWorks := make(map[int64]struct{})
	for _, w := range e.available(ctx) {
		if w.HasCircle() {
			withWorks[w.CircleID] = struct{}{}
		}
	}
	names := []string{}
	for _, c := range e.provider.Circles(ctx) {
		if _, ok := withWorks[c.ID]; ok {
			names = append(names, c.Name)
		}
	}
	return names
}

// AllActorNames lists distinct cast names in first-seen order.
func (e *Engine) AllActorNames(ctx context.Context) []string {
	return distinct(e.available(ctx), func(w *Work) []string { return w.Cast })
}

// AllTagNames lists distinct tags in first-seen order.
func (e *Engine) AllTagNames(ctx context.Context) []string {
	return distinct(e.available(ctx), func(w *Work) []string { return w.Tags })
}

func distinct(works []*Work, values func(*Work) []string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, w := range works {
		for _, v := range values(w) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
