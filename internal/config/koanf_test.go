// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Snapshot.Dir != "data" || cfg.Snapshot.Format != FormatJSON {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
	if cfg.Search.Threshold != 0.4 {
		t.Errorf("Search.Threshold = %v, want 0.4", cfg.Search.Threshold)
	}
	if cfg.Recommend.DefaultLimit != 4 {
		t.Errorf("Recommend.DefaultLimit = %d, want 4", cfg.Recommend.DefaultLimit)
	}
	if cfg.Cache.Type != CacheTypeLFU || cfg.Cache.TTL != 5*time.Minute || cfg.Cache.Capacity != 1000 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Sitemap.BaseURL != DefaultSitemapBaseURL {
		t.Errorf("Sitemap.BaseURL = %q", cfg.Sitemap.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestEnvTransformFunc tests environment variable name transformation
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"SNAPSHOT_DIR", "snapshot.dir"},
		{"R2_PUBLIC_DOMAIN", "snapshot.remote_base_url"},
		{"SEARCH_THRESHOLD", "search.threshold"},
		{"CACHE_TYPE", "cache.type"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"BASE_URL", "sitemap.base_url"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if err := os.WriteFile("config.yaml", []byte("server: {}"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove("config.yaml")

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("server: {}"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if got := findConfigFile(); got != customPath {
			t.Errorf("findConfigFile() = %q, want %q", got, customPath)
		}
	})
}

// TestLoadWithKoanfEnvOverridesFile tests the full layering.
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
snapshot:
  dir: /srv/snapshot
  format: parquet
cache:
  type: lfu
  capacity: 50
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SEARCH_THRESHOLD", "0.3")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env override)", cfg.Server.Port)
	}
	if cfg.Snapshot.Dir != "/srv/snapshot" || cfg.Snapshot.Format != FormatParquet {
		t.Errorf("Snapshot = %+v (file)", cfg.Snapshot)
	}
	if cfg.Cache.Type != CacheTypeLFU || cfg.Cache.Capacity != 50 || cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (file)", cfg.Logging.Level)
	}
	if cfg.Search.Threshold != 0.3 {
		t.Errorf("Search.Threshold = %v, want 0.3", cfg.Search.Threshold)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Database.MaxMemory != "512MB" {
		t.Errorf("Database.MaxMemory = %q, want default", cfg.Database.MaxMemory)
	}
}

// TestLoadWithKoanfValidation tests that validation runs after loading
func TestLoadWithKoanfValidation(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{"defaults", nil, ""},
		{"bad format", map[string]string{"SNAPSHOT_FORMAT": "csv"}, "SNAPSHOT_FORMAT"},
		{"fetch without url", map[string]string{"SNAPSHOT_FORMAT": "parquet", "SNAPSHOT_FETCH_ON_START": "true"}, "SNAPSHOT_REMOTE_BASE_URL is required"},
		{"fetch with json", map[string]string{"R2_PUBLIC_DOMAIN": "https://pub.example.com", "SNAPSHOT_FETCH_ON_START": "true"}, "requires SNAPSHOT_FORMAT=parquet"},
		{"remote url with path", map[string]string{"SNAPSHOT_REMOTE_BASE_URL": "https://pub.example.com/parquet"}, "base URL only"},
		{"remote url with credentials", map[string]string{"SNAPSHOT_REMOTE_BASE_URL": "https://u:p@pub.example.com"}, "credentials"},
		{"threshold too high", map[string]string{"SEARCH_THRESHOLD": "1.5"}, "SEARCH_THRESHOLD"},
		{"bad cache type", map[string]string{"CACHE_TYPE": "arc"}, "CACHE_TYPE"},
		{"disabled cache skips checks", map[string]string{"CACHE_ENABLED": "false", "CACHE_TYPE": "arc"}, ""},
		{"refresh too frequent", map[string]string{"SNAPSHOT_REFRESH_INTERVAL": "30s"}, "at least 1m"},
		{"negative refresh", map[string]string{"SNAPSHOT_REFRESH_INTERVAL": "-1h"}, "must not be negative"},
		{"hourly refresh", map[string]string{"SNAPSHOT_REFRESH_INTERVAL": "1h"}, ""},
		{"bad port", map[string]string{"HTTP_PORT": "70000"}, "HTTP_PORT"},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"rate limit out of range", map[string]string{"RATE_LIMIT_REQUESTS": "0"}, "RATE_LIMIT_REQUESTS"},
		{"wildcard cors in production with admin token", map[string]string{"ENVIRONMENT": "production", "ADMIN_TOKEN": "secret"}, "CORS_ORIGINS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("LoadWithKoanf() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("LoadWithKoanf() error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
