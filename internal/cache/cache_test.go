// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tl-toroama/catalog/internal/config"
	"github.com/tl-toroama/catalog/internal/metrics"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c := New(ttl, 0)
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Minute)
	c.Set("works:new", []byte(`{"status":"success"}`))

	value, ok := c.Get("works:new")
	if !ok {
		t.Fatal("expected works:new to exist")
	}
	if string(value.([]byte)) != `{"status":"success"}` {
		t.Errorf("Get = %s", value)
	}
	if _, ok := c.Get("works:sale"); ok {
		t.Error("unexpected hit for works:sale")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if got := c.HitRate(); got != 50 {
		t.Errorf("HitRate = %v, want 50", got)
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Minute)
	c.SetWithTTL("short", 1, 20*time.Millisecond)
	c.Set("long", 2)

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("short entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long entry should survive")
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Minute)
	for i := range 3 {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	c.Delete("k0")
	c.Delete("missing")
	if _, ok := c.Get("k0"); ok {
		t.Error("k0 should be deleted")
	}
	if got := c.GetStats(); got.Evictions != 1 || got.TotalKeys != 2 {
		t.Errorf("after delete stats = %+v", got)
	}

	c.Clear()
	if got := c.GetStats(); got.Evictions != 3 || got.TotalKeys != 0 {
		t.Errorf("after clear stats = %+v", got)
	}
	if _, ok := c.Get("k1"); ok {
		t.Error("k1 should be cleared")
	}
}

func TestCacheManualCleanup(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Minute)
	c.SetWithTTL("a", 1, time.Millisecond)
	c.SetWithTTL("b", 2, time.Millisecond)
	c.Set("c", 3)

	time.Sleep(10 * time.Millisecond)
	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 1 || stats.Evictions != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastCleanup.IsZero() {
		t.Error("LastCleanup not set")
	}
}

func TestCacheBoundedByCapacity(t *testing.T) {
	t.Parallel()

	c := New(time.Minute, 100)
	t.Cleanup(c.Close)

	for i := range 5000 {
		c.Set(fmt.Sprintf("search:q%d", i), i)
	}

	stats := c.GetStats()
	if stats.TotalKeys != 100 {
		t.Errorf("TotalKeys = %d, want 100", stats.TotalKeys)
	}
	if stats.Evictions != 4900 {
		t.Errorf("Evictions = %d, want 4900", stats.Evictions)
	}
	if _, ok := c.Get("search:q4999"); !ok {
		t.Error("most recent key was evicted")
	}

	// Overwriting an existing key never evicts.
	c.Set("search:q4999", "again")
	if got := c.GetStats().Evictions; got != 4900 {
		t.Errorf("Evictions after overwrite = %d, want 4900", got)
	}
}

func TestCacheFullDropsExpiredFirst(t *testing.T) {
	t.Parallel()

	c := New(time.Minute, 2)
	t.Cleanup(c.Close)

	c.SetWithTTL("stale", 1, 10*time.Millisecond)
	c.SetWithTTL("soon", 2, 30*time.Second)
	time.Sleep(30 * time.Millisecond)
	c.Set("fresh", 3)

	if _, ok := c.Get("soon"); !ok {
		t.Error("live entry evicted while an expired one was present")
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("new entry missing")
	}

	c.Set("newest", 4)
	if _, ok := c.Get("soon"); ok {
		t.Error("entry closest to expiry should be dropped when full")
	}
}

func TestNewCacherBoundsFreeTextKeys(t *testing.T) {
	t.Parallel()

	for _, typ := range []string{config.CacheTypeTTL, config.CacheTypeLFU} {
		t.Run(typ, func(t *testing.T) {
			t.Parallel()

			c := NewCacher(&config.CacheConfig{Enabled: true, Type: typ, TTL: time.Minute, Capacity: 1000})
			if closer, ok := c.(*Cache); ok {
				t.Cleanup(closer.Close)
			}
			for i := range 50000 {
				c.Set(GenerateKey("search", map[string]string{"q": fmt.Sprint(i)}), i)
			}
			if got := c.GetStats().TotalKeys; got > 1000 {
				t.Errorf("TotalKeys = %d, want <= 1000", got)
			}
		})
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	t.Parallel()

	c := New(time.Minute, 0)
	c.Close()
	c.Close()
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Minute)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 200 {
				key := fmt.Sprintf("g%d-%d", g, i%20)
				c.Set(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if stats := c.GetStats(); stats.Hits+stats.Misses != 8*200 {
		t.Errorf("lookups = %d, want %d", stats.Hits+stats.Misses, 8*200)
	}
}

func TestCacheRecordsMetrics(t *testing.T) {
	t.Parallel()

	hits := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("ttl"))
	misses := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("ttl"))

	c := newTestCache(t, time.Minute)
	c.Set("k", 1)
	c.Get("k")
	c.Get("nope")

	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("ttl")); got < hits+1 {
		t.Errorf("hits = %v, want >= %v", got, hits+1)
	}
	if got := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("ttl")); got < misses+1 {
		t.Errorf("misses = %v, want >= %v", got, misses+1)
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type params struct {
		Limit int    `json:"limit"`
		Genre string `json:"genre"`
	}

	a := GenerateKey("works_new", params{Limit: 20})
	b := GenerateKey("works_new", params{Limit: 20})
	c := GenerateKey("works_new", params{Limit: 10})
	d := GenerateKey("works_sale", params{Limit: 20})

	if a != b {
		t.Error("equal params should share a key")
	}
	if a == c || a == d {
		t.Error("different params or routes should not share a key")
	}

	m1 := GenerateKey("search", map[string]string{"q": "耳かき", "sort": "new"})
	m2 := GenerateKey("search", map[string]string{"sort": "new", "q": "耳かき"})
	if m1 != m2 {
		t.Error("map key order should not matter")
	}

	if got := GenerateKey("bad", make(chan int)); got == "" {
		t.Error("unmarshalable params should still produce a key")
	}
}

func TestNewCacher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.CacheConfig
		want string
	}{
		{"nil", nil, "nop"},
		{"disabled", &config.CacheConfig{Enabled: false, Type: "lfu"}, "nop"},
		{"ttl", &config.CacheConfig{Enabled: true, Type: "ttl", TTL: time.Minute}, "ttl"},
		{"lfu", &config.CacheConfig{Enabled: true, Type: "lfu", Capacity: 10}, "lfu"},
		{"unknown falls back to lfu", &config.CacheConfig{Enabled: true, Type: "arc"}, "lfu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewCacher(tt.cfg)
			var kind string
			switch c := got.(type) {
			case Nop:
				kind = "nop"
			case *Cache:
				kind = "ttl"
				c.Close()
			case *LFUCache:
				kind = "lfu"
			}
			if kind != tt.want {
				t.Errorf("NewCacher = %T, want %s", got, tt.want)
			}
		})
	}
}

func TestNopNeverStores(t *testing.T) {
	t.Parallel()

	var c Cacher = Nop{}
	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Error("Nop returned a value")
	}
	if c.HitRate() != 0 {
		t.Error("Nop hit rate should be 0")
	}
}
