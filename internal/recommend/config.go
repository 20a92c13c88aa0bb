// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package recommend

import "fmt"

// Config controls how a Plan is split and capped.
type Config struct {
	// DefaultLimit applies when Run is called with limit <= 0.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	MaxLimit int `json:"max_limit"`

	// PrimaryDivisor sets the primary half capacity to ⌊limit/PrimaryDivisor⌋.
	PrimaryDivisor int `json:"primary_divisor"`
}

// DefaultConfig returns the related-works defaults: 4 results, half of them
// reserved for the primary tiers.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:   4,
		MaxLimit:       100,
		PrimaryDivisor: 2,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	if c.PrimaryDivisor < 1 {
		return fmt.Errorf("primary_divisor must be positive, got %d", c.PrimaryDivisor)
	}
	return nil
}
