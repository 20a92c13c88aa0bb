// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package config

import (
	"fmt"
	"time"
)

// Validate checks that the configuration is complete and within range.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSnapshot,
		c.validateSearch,
		c.validateRecommend,
		c.validateCache,
		c.validateAPI,
		c.validateSecurity,
		c.validateSitemap,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty (use :memory: for an in-memory database)")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

var validSnapshotFormats = map[string]bool{
	FormatJSON:    true,
	FormatParquet: true,
}

// validateSnapshot validates snapshot location and fetch settings
func (c *Config) validateSnapshot() error {
	s := c.Snapshot
	if s.Dir == "" {
		return fmt.Errorf("SNAPSHOT_DIR must not be empty")
	}
	if !validSnapshotFormats[s.Format] {
		return fmt.Errorf("SNAPSHOT_FORMAT must be one of: json, parquet")
	}
	if s.RemoteBaseURL != "" {
		if err := validateHTTPURL(s.RemoteBaseURL, "SNAPSHOT_REMOTE_BASE_URL"); err != nil {
			return err
		}
	}
	if s.FetchOnStart {
		if s.RemoteBaseURL == "" {
			return fmt.Errorf("SNAPSHOT_REMOTE_BASE_URL is required when SNAPSHOT_FETCH_ON_START=true")
		}
		if s.Format != FormatParquet {
			return fmt.Errorf("SNAPSHOT_FETCH_ON_START requires SNAPSHOT_FORMAT=parquet")
		}
	}
	if s.FetchTimeout <= 0 {
		return fmt.Errorf("SNAPSHOT_FETCH_TIMEOUT must be positive")
	}
	if s.FetchRate <= 0 {
		return fmt.Errorf("SNAPSHOT_FETCH_RATE must be positive")
	}
	if s.BreakerFailures == 0 {
		return fmt.Errorf("SNAPSHOT_BREAKER_FAILURES must be at least 1")
	}
	if s.RefreshInterval < 0 {
		return fmt.Errorf("SNAPSHOT_REFRESH_INTERVAL must not be negative")
	}
	if s.RefreshInterval > 0 && s.RefreshInterval < time.Minute {
		return fmt.Errorf("SNAPSHOT_REFRESH_INTERVAL must be at least 1m")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.Threshold <= 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("SEARCH_THRESHOLD must be in (0, 1], got %v", c.Search.Threshold)
	}
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be at least 1")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be at least 1")
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT (%d) must be >= RECOMMEND_DEFAULT_LIMIT (%d)",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}
	return nil
}

var validCacheTypes = map[string]bool{
	CacheTypeTTL: true,
	CacheTypeLFU: true,
}

// validateCache validates the response cache settings (only if enabled)
func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if !validCacheTypes[c.Cache.Type] {
		return fmt.Errorf("CACHE_TYPE must be one of: ttl, lfu")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API page sizes must satisfy 1 <= API_DEFAULT_PAGE_SIZE <= API_MAX_PAGE_SIZE")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateCORS()
}

// validateCORS rejects wildcard CORS alongside an admin token in production.
func (c *Config) validateCORS() error {
	if c.Security.AdminToken != "" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production when ADMIN_TOKEN is set; " +
			"set specific origins: CORS_ORIGINS=https://yourdomain.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateSitemap() error {
	return validateHTTPURL(c.Sitemap.BaseURL, "SITEMAP_BASE_URL")
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
