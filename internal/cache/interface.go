// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package cache

import (
	"time"

	"github.com/tl-toroama/catalog/internal/config"
)

// Cacher is the response cache used by the API handlers. Implementations
// are safe for concurrent use.
type Cacher interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	SetWithTTL(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
	GetStats() Stats
	HitRate() float64
}

// Type selects the eviction policy.
type Type string

const (
	// TypeTTL expires entries after a fixed duration and drops the entry
	// closest to expiry when full.
	TypeTTL Type = config.CacheTypeTTL

	// TypeLFU bounds the entry count and evicts the least frequently used.
	TypeLFU Type = config.CacheTypeLFU
)

// NewCacher builds the cache described by cfg. A disabled cache never
// stores anything.
func NewCacher(cfg *config.CacheConfig) Cacher {
	if cfg == nil || !cfg.Enabled {
		return Nop{}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch Type(cfg.Type) {
	case TypeTTL:
		return New(ttl, cfg.Capacity)
	default:
		return NewLFUCache(cfg.Capacity, ttl)
	}
}

// Nop is a Cacher that misses on every lookup.
type Nop struct{}

func (Nop) Get(string) (any, bool)                { return nil, false }
func (Nop) Set(string, any)                       {}
func (Nop) SetWithTTL(string, any, time.Duration) {}
func (Nop) Delete(string)                         {}
func (Nop) Clear()                                {}
func (Nop) GetStats() Stats                       { return Stats{} }
func (Nop) HitRate() float64                      { return 0 }

var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*LFUCache)(nil)
	_ Cacher = Nop{}
)
