// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package recommend

// Tier is one fallback stage. Candidates is called at most once, and only
// when the list still has room.
type Tier[T any] struct {
	Name       string
	Candidates func() []T
}

// Plan is a two-half relevance plan. Primary tiers fill the first
// ⌊limit/divisor⌋ slots; Fallback tiers fill the remaining slots.
type Plan[T any] struct {
	Primary  []Tier[T]
	Fallback []Tier[T]
}

// Seen is the set of keys already selected.
type Seen[K comparable] map[K]struct{}

// NewSeen returns a set pre-populated with keys.
func NewSeen[K comparable](keys ...K) Seen[K] {
	s := make(Seen[K], len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Seen[K]) Has(k K) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k and reports whether it was new.
func (s Seen[K]) Add(k K) bool {
	if s.Has(k) {
		return false
	}
	s[k] = struct{}{}
	return true
}

// TierStat records what one tier contributed.
type TierStat struct {
	Name      string `json:"name"`
	Evaluated bool   `json:"evaluated"`
	Offered   int    `json:"offered"`
	Taken     int    `json:"taken"`
}

// Result is the composed list plus per-tier accounting.
type Result[T any] struct {
	Items    []T        `json:"items"`
	Primary  int        `json:"primary"`
	Fallback int        `json:"fallback"`
	Tiers    []TierStat `json:"tiers"`
}

// Stats are cumulative engine counters.
type Stats struct {
	Runs        int64 `json:"runs"`
	ItemsServed int64 `json:"items_served"`
	ShortRuns   int64 `json:"short_runs"`
}
