// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package cache

import (
	"sync"
	"time"

	"github.com/tl-toroama/catalog/internal/metrics"
)

// LFU defaults.
const (
	DefaultCapacity = 10000
	DefaultTTL      = 5 * time.Minute
)

// lfuEntry sits in the doubly linked list of its access frequency.
type lfuEntry struct {
	key       string
	value     any
	freq      int
	expiresAt time.Time
	prev      *lfuEntry
	next      *lfuEntry
}

// freqList holds the entries of one frequency, most recent at the front.
type freqList struct {
	head *lfuEntry
	tail *lfuEntry
	size int
}

func newFreqList() *freqList {
	fl := &freqList{
		head: &lfuEntry{},
		tail: &lfuEntry{},
	}
	fl.head.next = fl.tail
	fl.tail.prev = fl.head
	return fl
}

func (fl *freqList) addToFront(entry *lfuEntry) {
	entry.prev = fl.head
	entry.next = fl.head.next
	fl.head.next.prev = entry
	fl.head.next = entry
	fl.size++
}

func (fl *freqList) remove(entry *lfuEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	entry.prev = nil
	entry.next = nil
	fl.size--
}

func (fl *freqList) removeLast() *lfuEntry {
	if fl.size == 0 {
		return nil
	}
	entry := fl.tail.prev
	fl.remove(entry)
	return entry
}

// LFUCache is a bounded cache that evicts the least frequently used entry,
// least recently used among equals. All operations are O(1).
//
// Hot catalog pages (new works, rankings, the search index) keep a high
// frequency and survive long-tail circle and tag pages.
type LFUCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	keyMap   map[string]*lfuEntry
	freqMap  map[int]*freqList
	minFreq  int

	hits      int64
	misses    int64
	evictions int64
}

// NewLFUCache returns an LFU cache. Non-positive arguments use the defaults.
func NewLFUCache(capacity int, ttl time.Duration) *LFUCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &LFUCache{
		capacity: capacity,
		ttl:      ttl,
		keyMap:   make(map[string]*lfuEntry, capacity),
		freqMap:  make(map[int]*freqList),
	}
}

// Get returns the value for key and bumps its frequency.
func (c *LFUCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.keyMap[key]
	if !exists {
		c.miss()
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.removeEntry(entry)
		c.evictions++
		c.miss()
		return nil, false
	}

	c.incrementFreq(entry)
	c.hits++
	metrics.RecordCacheAccess(string(TypeLFU), true)
	return entry.value, true
}

func (c *LFUCache) miss() {
	c.misses++
	metrics.RecordCacheAccess(string(TypeLFU), false)
}

// Set stores value with the default TTL.
func (c *LFUCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with a custom TTL, evicting when full.
func (c *LFUCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if entry, exists := c.keyMap[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		c.incrementFreq(entry)
		return
	}

	if len(c.keyMap) >= c.capacity {
		c.evict()
	}

	entry := &lfuEntry{
		key:       key,
		value:     value,
		freq:      1,
		expiresAt: expiresAt,
	}
	if c.freqMap[1] == nil {
		c.freqMap[1] = newFreqList()
	}
	c.freqMap[1].addToFront(entry)
	c.keyMap[key] = entry
	c.minFreq = 1
}

// Delete removes key.
func (c *LFUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.keyMap[key]; exists {
		c.removeEntry(entry)
		c.evictions++
	}
}

// Len returns the number of entries, expired ones included.
func (c *LFUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keyMap)
}

// Clear drops every entry.
func (c *LFUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictions += int64(len(c.keyMap))
	c.keyMap = make(map[string]*lfuEntry, c.capacity)
	c.freqMap = make(map[int]*freqList)
	c.minFreq = 0
}

// GetStats returns a copy of the counters.
func (c *LFUCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		TotalKeys: int64(len(c.keyMap)),
	}
}

// HitRate returns hits as a percentage of lookups.
func (c *LFUCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return hitRate(c.hits, c.misses)
}

// Frequency returns the access count of key, or 0.
func (c *LFUCache) Frequency(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.keyMap[key]; exists {
		return entry.freq
	}
	return 0
}

// CleanupExpired removes expired entries and returns how many were removed.
func (c *LFUCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, entry := range c.keyMap {
		if now.After(entry.expiresAt) {
			c.removeEntry(entry)
			removed++
		}
	}
	c.evictions += int64(removed)
	return removed
}

func (c *LFUCache) incrementFreq(entry *lfuEntry) {
	oldFreq := entry.freq
	if fl, exists := c.freqMap[oldFreq]; exists {
		fl.remove(entry)
		if fl.size == 0 {
			delete(c.freqMap, oldFreq)
			if c.minFreq == oldFreq {
				c.minFreq++
			}
		}
	}

	entry.freq++
	if c.freqMap[entry.freq] == nil {
		c.freqMap[entry.freq] = newFreqList()
	}
	c.freqMap[entry.freq].addToFront(entry)
}

// evict removes the LRU entry among those with the lowest frequency.
func (c *LFUCache) evict() {
	fl := c.freqMap[c.minFreq]
	if fl == nil {
		// Deletes and expiry can empty the minimum list.
		c.minFreq = 0
		for f := range c.freqMap {
			if c.minFreq == 0 || f < c.minFreq {
				c.minFreq = f
			}
		}
		if fl = c.freqMap[c.minFreq]; fl == nil {
			return
		}
	}

	if entry := fl.removeLast(); entry != nil {
		delete(c.keyMap, entry.key)
		c.evictions++
	}
	if fl.size == 0 {
		delete(c.freqMap, c.minFreq)
	}
}

func (c *LFUCache) removeEntry(entry *lfuEntry) {
	if fl, exists := c.freqMap[entry.freq]; exists {
		fl.remove(entry)
		if fl.size == 0 {
			delete(c.freqMap, entry.freq)
		}
	}
	delete(c.keyMap, entry.key)
}
