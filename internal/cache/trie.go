// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package cache

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/width"

	"github.com/tl-toroama/catalog/internal/catalog"
)

// DefaultSuggestions is the Autocomplete limit used when none is given.
const DefaultSuggestions = 10

// Kind says which catalog dimension a suggested name belongs to.
type Kind string

const (
	KindActor  Kind = "actor"
	KindTag    Kind = "tag"
	KindCircle Kind = "circle"
)

// Suggestion is one autocomplete candidate. Weight is the number of
// available works carrying the name.
type Suggestion struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Weight int    `json:"weight"`
}

type trieNode struct {
	children map[rune]*trieNode
	entries  []Suggestion
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// Trie is a prefix tree over catalog names. Keys are lower-cased and
// width-folded, so "ＡＳＭＲ" and "asmr" share a path; the original
// spelling is kept on the suggestion. Safe for concurrent use.
type Trie struct {
	mu   sync.RWMutex
	root *trieNode
	size int
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

func normalizeKey(s string) string {
	return width.Fold.String(strings.ToLower(strings.TrimSpace(s)))
}

// Insert adds name under kind with weight. Inserting an existing
// (name, kind) pair adds to its weight and reports false.
func (t *Trie) Insert(name string, kind Kind, weight int) bool {
	key := normalizeKey(name)
	if key == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, ch := range key {
		child := node.children[ch]
		if child == nil {
			child = newTrieNode()
			node.children[ch] = child
		}
		node = child
	}

	for i := range node.entries {
		if node.entries[i].Kind == kind {
			node.entries[i].Weight += weight
			return false
		}
	}
	node.entries = append(node.entries, Suggestion{Name: name, Kind: kind, Weight: weight})
	t.size++
	return true
}

// Lookup returns the entries stored for exactly name.
func (t *Trie) Lookup(name string) []Suggestion {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.find(normalizeKey(name))
	if node == nil || len(node.entries) == 0 {
		return nil
	}
	return slices.Clone(node.entries)
}

func (t *Trie) find(key string) *trieNode {
	node := t.root
	for _, ch := range key {
		node = node.children[ch]
		if node == nil {
			return nil
		}
	}
	return node
}

// Autocomplete returns names starting with prefix, heaviest first, then
// by name and kind. limit <= 0 uses DefaultSuggestions. When kinds are
// given only those kinds are returned.
func (t *Trie) Autocomplete(prefix string, limit int, kinds ...Kind) []Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestions
	}

	t.mu.RLock()
	node := t.find(normalizeKey(prefix))
	var results []Suggestion
	if node != nil {
		collect(node, &results, kinds)
	}
	t.mu.RUnlock()

	slices.SortFunc(results, func(a, b Suggestion) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(string(a.Kind), string(b.Kind))
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func collect(node *trieNode, results *[]Suggestion, kinds []Kind) {
	for _, e := range node.entries {
		if len(kinds) == 0 || slices.Contains(kinds, e.Kind) {
			*results = append(*results, e)
		}
	}
	for _, child := range node.children {
		collect(child, results, kinds)
	}
}

// Size returns the number of (name, kind) entries.
func (t *Trie) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Clear removes every entry.
func (t *Trie) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = newTrieNode()
	t.size = 0
}

// BuildSuggester indexes actor, tag and circle names. Circles without
// available works are skipped.
func BuildSuggester(actors, tags []catalog.NameCount, circles []catalog.Circle) *Trie {
	t := NewTrie()
	for _, a := range actors {
		t.Insert(a.Name, KindActor, a.Count)
	}
	for _, tag := range tags {
		t.Insert(tag.Name, KindTag, tag.Count)
	}
	for _, c := range circles {
		if c.WorkCount > 0 {
			t.Insert(c.Name, KindCircle, c.WorkCount)
		}
	}
	return t
}
