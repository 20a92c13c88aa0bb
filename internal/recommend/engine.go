// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package recommend

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Engine runs relevance plans. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	runs      atomic.Int64
	served    atomic.Int64
	shortRuns atomic.Int64
}

// NewEngine validates cfg (nil means DefaultConfig) and returns an Engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// Limit normalizes a requested limit against the configured default and cap.
func (e *Engine) Limit(limit int) int {
	if limit <= 0 {
		return e.config.DefaultLimit
	}
	return min(limit, e.config.MaxLimit)
}

// Split returns the primary and fallback capacities for limit.
func (e *Engine) Split(limit int) (primary, fallback int) {
	primary = limit / e.config.PrimaryDivisor
	return primary, limit - primary
}

// Stats returns cumulative counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Runs:        e.runs.Load(),
		ItemsServed: e.served.Load(),
		ShortRuns:   e.shortRuns.Load(),
	}
}

// Fill takes candidates from tiers in order until capacity items are taken.
// Keys already in seen are skipped and taken keys are added to it.
func Fill[T any, K comparable](capacity int, seen Seen[K], key func(T) K, tiers ...Tier[T]) ([]T, []TierStat) {
	out := make([]T, 0, max(capacity, 0))
	stats := make([]TierStat, len(tiers))

	for i, tier := range tiers {
		stats[i].Name = tier.Name
		if len(out) >= capacity || tier.Candidates == nil {
			continue
		}
		candidates := tier.Candidates()
		stats[i].Evaluated = true
		stats[i].Offered = len(candidates)

		for _, c := range candidates {
			if len(out) >= capacity {
				break
			}
			if !seen.Add(key(c)) {
				continue
			}
			out = append(out, c)
			stats[i].Taken++
		}
	}
	return out, stats
}

// Run executes plan for limit. The primary half takes ⌊limit/divisor⌋ slots
// and the fallback half the rest; both share one Seen set so no key appears
// twice. The combined list never exceeds limit.
func Run[T any, K comparable](e *Engine, limit int, key func(T) K, plan Plan[T], exclude ...K) Result[T] {
	limit = e.Limit(limit)
	primaryCap, fallbackCap := e.Split(limit)
	seen := NewSeen(exclude...)

	primary, pstats := Fill(primaryCap, seen, key, plan.Primary...)
	fallback, fstats := Fill(fallbackCap, seen, key, plan.Fallback...)

	items := append(primary, fallback...)
	if len(items) > limit {
		items = items[:limit]
	}

	res := Result[T]{
		Items:    items,
		Primary:  len(primary),
		Fallback: len(fallback),
		Tiers:    append(pstats, fstats...),
	}

	e.runs.Add(1)
	e.served.Add(int64(len(items)))
	if len(items) < limit {
		e.shortRuns.Add(1)
	}

	if e.logger.GetLevel() <= zerolog.DebugLevel {
		ev := e.logger.Debug().Int("limit", limit).Int("primary", res.Primary).Int("fallback", res.Fallback)
		for _, ts := range res.Tiers {
			ev = ev.Int("tier_"+ts.Name, ts.Taken)
		}
		ev.Msg("Relevance plan composed")
	}
	return res
}
