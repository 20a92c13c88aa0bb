// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package search

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// DefaultThreshold is the highest field score that still counts as a match.
const DefaultThreshold = 0.4

// epsilon replaces an exact (zero) field score in the weighted product.
const epsilon = 0x1p-52

// Field weights, before normalization.
const (
	weightTitle  = 1.0
	weightCast   = 0.8
	weightCircle = 0.5
	weightTags   = 0.3
)

// normalize folds case and width. A new Caser is built per call because
// Casers are stateful.
func normalize(s string) []rune {
	return []rune(cases.Fold().String(width.Fold.String(s)))
}

type doc struct {
	title  []rune
	circle []rune
	cast   [][]rune
	tags   [][]rune
}

func newDoc(it *Item) doc {
	d := doc{
		title:  normalize(it.Title),
		circle: normalize(it.Circle),
		cast:   make([][]rune, len(it.Cast)),
		tags:   make([][]rune, len(it.Tags)),
	}
	for i, s := range it.Cast {
		d.cast[i] = normalize(s)
	}
	for i, s := range it.Tags {
		d.tags[i] = normalize(s)
	}
	return d
}

// Index is a projection with every searchable field pre-normalized. It is
// read-only after construction and safe for concurrent use.
type Index struct {
	items []Item
	docs  []doc
}

// NewIndex normalizes items for matching. The slice is retained.
func NewIndex(items []Item) *Index {
	ix := &Index{items: items, docs: make([]doc, len(items))}
	for i := range items {
		ix.docs[i] = newDoc(&items[i])
	}
	return ix
}

// Items returns the indexed projection.
func (ix *Index) Items() []Item { return ix.items }

// Len returns the number of indexed items.
func (ix *Index) Len() int { return len(ix.items) }

// Matcher scores tokens against indexed items.
type Matcher struct {
	threshold float64
	weights   [4]float64 // title, cast, circle, tags; sums to 1
}

// NewMatcher returns a Matcher accepting field scores up to threshold.
func NewMatcher(threshold float64) (*Matcher, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be between 0 and 1, got %v", threshold)
	}
	total := weightTitle + weightCast + weightCircle + weightTags
	return &Matcher{
		threshold: threshold,
		weights: [4]float64{
			weightTitle / total,
			weightCast / total,
			weightCircle / total,
			weightTags / total,
		},
	}, nil
}

// Threshold returns the match threshold.
func (m *Matcher) Threshold() float64 { return m.threshold }

type hit struct {
	idx   int
	score float64
}

// Search runs query over ix. An empty query returns the indexed items
// unchanged. Each whitespace token narrows the previous token's survivors;
// the result is ordered by the last token's score, best first.
func (m *Matcher) Search(ix *Index, query string) []Item {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return ix.items
	}

	candidates := make([]int, ix.Len())
	for i := range candidates {
		candidates[i] = i
	}

	for _, tok := range tokens {
		pattern := normalize(tok)
		hits := make([]hit, 0, len(candidates))
		for _, idx := range candidates {
			if score, ok := m.score(&ix.docs[idx], pattern); ok {
				hits = append(hits, hit{idx: idx, score: score})
			}
		}
		slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.score, b.score) })

		candidates = candidates[:0]
		for _, h := range hits {
			candidates = append(candidates, h.idx)
		}
		if len(candidates) == 0 {
			break
		}
	}

	out := make([]Item, len(candidates))
	for i, idx := range candidates {
		out[i] = ix.items[idx]
	}
	return out
}

// score combines the matching fields of d into Π max(s, ε)^w. ok is false
// when no field matches.
func (m *Matcher) score(d *doc, pattern []rune) (float64, bool) {
	total, matched := 1.0, false
	fields := [4]struct {
		s  float64
		ok bool
	}{}
	fields[0].s, fields[0].ok = m.fieldScore(d.title, pattern)
	fields[1].s, fields[1].ok = m.listScore(d.cast, pattern)
	fields[2].s, fields[2].ok = m.fieldScore(d.circle, pattern)
	fields[3].s, fields[3].ok = m.listScore(d.tags, pattern)

	for i, f := range fields {
		if !f.ok {
			continue
		}
		matched = true
		total *= math.Pow(max(f.s, epsilon), m.weights[i])
	}
	return total, matched
}

func (m *Matcher) fieldScore(text, pattern []rune) (float64, bool) {
	if len(text) == 0 {
		return 1, false
	}
	s := float64(approxErrors(pattern, text)) / float64(len(pattern))
	return s, s <= m.threshold
}

// listScore is the best element score.
func (m *Matcher) listScore(texts [][]rune, pattern []rune) (float64, bool) {
	best, found := 1.0, false
	for _, t := range texts {
		if s, ok := m.fieldScore(t, pattern); ok && (!found || s < best) {
			best, found = s, true
		}
	}
	return best, found
}

// approxErrors returns the minimum edit distance between pattern and any
// substring of text.
func approxErrors(pattern, text []rune) int {
	n := len(pattern)
	if n == 0 {
		return 0
	}

	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for i := range prev {
		prev[i] = i
	}
	best := n

	for _, tc := range text {
		cur[0] = 0
		for i := 1; i <= n; i++ {
			cost := 1
			if pattern[i-1] == tc {
				cost = 0
			}
			cur[i] = min(prev[i]+1, cur[i-1]+1, prev[i-1]+cost)
		}
		best = min(best, cur[n])
		if best == 0 {
			return 0
		}
		prev, cur = cur, prev
	}
	return best
}

// Search runs query over items with the default threshold.
func Search(items []Item, query string) []Item {
	m, _ := NewMatcher(DefaultThreshold)
	return m.Search(NewIndex(items), query)
}
