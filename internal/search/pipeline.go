// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package search

import (
	"time"

	"github.com/tl-toroama/catalog/internal/metrics"
)

// Query is one full pipeline request.
type Query struct {
	Text   string
	Filter Filter
	Sort   SortType
}

// Result is the pipeline output. Total is the size of the whole
// projection and Count the number of matching items.
type Result struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
	Count int    `json:"count"`
}

// Run applies search, filter and sort to the full index, in that order.
func (m *Matcher) Run(ix *Index, q Query) Result {
	start := time.Now()

	items := m.Search(ix, q.Text)
	items = Apply(items, q.Filter)
	items = Sort(items, q.Sort, q.Filter.Platform)

	metrics.RecordSearch(time.Since(start), len(items))
	return Result{Items: items, Total: ix.Len(), Count: len(items)}
}

// Run executes q over items with the default threshold.
func Run(items []Item, q Query) Result {
	m, _ := NewMatcher(DefaultThreshold)
	return m.Run(NewIndex(items), q)
}
