// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package cache provides the API response cache and the name suggestion trie.

# Response Cache

Catalog queries are pure reads over an immutable snapshot, so encoded API
responses can be reused until the snapshot is cleared. Two policies are
available behind the Cacher interface:

  - LFU (LFUCache): O(1) least-frequently-used eviction with TTL, the default
  - TTL (Cache): map with per-entry expiry and a background sweep; when full
    it drops expired entries, then the entry closest to expiry

Both hold at most config.CacheConfig.Capacity entries, so free-text search
and suggestion keys cannot grow the cache without bound. NewCacher picks
one from config.CacheConfig; a disabled cache is a Nop.
Hits and misses are exported as cache_hits_total and cache_misses_total.

Keys come from GenerateKey, which hashes the route parameters:

	key := cache.GenerateKey("works_new", params)
	if body, ok := c.Get(key); ok {
	    return body
	}

# Suggestions

Trie indexes actor, tag and circle names for prefix autocomplete. Keys are
case and width folded; results are ordered by work count:

	trie := cache.BuildSuggester(engine.Actors(ctx), engine.Tags(ctx), engine.Circles(ctx))
	trie.Autocomplete("耳", 10)
*/
package cache
