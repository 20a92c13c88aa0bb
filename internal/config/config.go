// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	snap := snapshot.New(source, snapshot.WithLogger(...))
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Snapshot  SnapshotConfig  `koanf:"snapshot"`
	Search    SearchConfig    `koanf:"search"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Sitemap   SitemapConfig   `koanf:"sitemap"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// DatabaseConfig holds the DuckDB settings used to read Parquet snapshots.
type DatabaseConfig struct {
	Path      string `koanf:"path"` // ":memory:" unless a scratch file is wanted
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// Snapshot formats.
const (
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// SnapshotConfig locates the catalog snapshot and controls remote fetches.
//
// Environment Variables:
//   - SNAPSHOT_DIR: directory holding works/circles files (default: data)
//   - SNAPSHOT_FORMAT: json or parquet (default: json)
//   - SNAPSHOT_REMOTE_BASE_URL / R2_PUBLIC_DOMAIN: public bucket base URL
//   - SNAPSHOT_FETCH_ON_START: download Parquet files before serving
//   - SNAPSHOT_FETCH_TIMEOUT: per-file download timeout (default: 2m)
//   - SNAPSHOT_FETCH_RATE: downloads per second (default: 2)
//   - SNAPSHOT_SAFE_URL: block private and loopback targets (default: true)
//   - SNAPSHOT_REFRESH_INTERVAL: re-fetch and reload period, 0 disables (default: 0)
type SnapshotConfig struct {
	Dir           string        `koanf:"dir"`
	Format        string        `koanf:"format"`
	RemoteBaseURL string        `koanf:"remote_base_url"`
	FetchOnStart  bool          `koanf:"fetch_on_start"`
	FetchTimeout  time.Duration `koanf:"fetch_timeout"`
	FetchRate     float64       `koanf:"fetch_rate"`
	SafeURL       bool          `koanf:"safe_url"`

	// Circuit breaker around remote fetches.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// SearchConfig tunes the fuzzy matcher.
type SearchConfig struct {
	Threshold  float64 `koanf:"threshold"`
	MaxResults int     `koanf:"max_results"`
}

// RecommendConfig sizes related-work lists.
type RecommendConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// Cache types.
const (
	CacheTypeTTL = "ttl"
	CacheTypeLFU = "lfu"
)

// CacheConfig controls the API response cache.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Type     string        `koanf:"type"`
	TTL      time.Duration `koanf:"ttl"`
	Capacity int           `koanf:"capacity"`
}

// APIConfig holds API pagination and response settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings. The API is
// read-only and unauthenticated apart from the admin token.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`

	// AdminToken guards /api/v1/admin routes. Empty disables them.
	AdminToken string `koanf:"admin_token"`
}

// SitemapConfig holds sitemap generation settings.
type SitemapConfig struct {
	BaseURL string `koanf:"base_url"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
