// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package search

import (
	"slices"
	"testing"
)

func ids(items []Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func ptrTo[T any](v T) *T { return &v }

func searchFixture() []Item {
	return []Item{
		{ID: 1, Title: "Thunder", Tags: []string{"rain", "night"}, Cast: []string{}, Class: ClassASMR},
		{ID: 2, Title: "Rain", Cast: []string{"山田花子"}, Tags: []string{}, Class: ClassASMR},
		{ID: 3, Title: "Sleep ASMR", Circle: "Moonlight", Cast: []string{"佐藤"}, Tags: []string{"癒し"}, Class: ClassASMR},
		{ID: 4, Title: "Dungeon Quest", Circle: "Pixel Works", Tags: []string{"RPG"}, Cast: []string{}, Class: ClassGame},
	}
}

func TestApproxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern, text string
		want          int
	}{
		{"abc", "xxabcxx", 0},
		{"abd", "xxabcxx", 1},
		{"asnr", "sleep asmr", 1},
		{"abc", "", 3},
		{"", "anything", 0},
		{"rain", "thunder", 3},
	}
	for _, tt := range tests {
		got := approxErrors([]rune(tt.pattern), []rune(tt.text))
		if got != tt.want {
			t.Errorf("approxErrors(%q, %q) = %d, want %d", tt.pattern, tt.text, got, tt.want)
		}
	}
}

func TestNormalizeFoldsCaseAndWidth(t *testing.T) {
	t.Parallel()

	if got := string(normalize("ＡＳＭＲ Sleep")); got != "asmr sleep" {
		t.Errorf("normalize = %q", got)
	}
}

func TestNewMatcherRejectsBadThreshold(t *testing.T) {
	t.Parallel()

	for _, th := range []float64{-0.1, 1.5} {
		if _, err := NewMatcher(th); err == nil {
			t.Errorf("NewMatcher(%v) should fail", th)
		}
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"empty query returns input", "   ", []int64{1, 2, 3, 4}},
		{"exact title", "dungeon", []int64{4}},
		{"typo tolerated", "asnr", []int64{3}},
		{"full width query", "ＡＳＭＲ", []int64{3}},
		{"cast substring", "山田", []int64{2}},
		{"circle", "moonlight", []int64{3}},
		{"title beats tag", "rain", []int64{2, 1}},
		{"no match", "zzzzzz", []int64{}},
		{"and composition", "sleep 癒し", []int64{3}},
		{"and narrows to nothing", "sleep dungeon", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(Search(searchFixture(), tt.query))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearchAndIsSubsetOfFirstToken(t *testing.T) {
	t.Parallel()

	items := searchFixture()
	queries := [][2]string{
		{"rain", "rain night"},
		{"sleep", "sleep asmr"},
		{"quest", "quest pixel"},
	}
	for _, q := range queries {
		first := ids(Search(items, q[0]))
		both := ids(Search(items, q[1]))
		for _, id := range both {
			if !slices.Contains(first, id) {
				t.Errorf("Search(%q) = %v not a subset of Search(%q) = %v", q[1], both, q[0], first)
			}
		}
	}
}

func TestMatcherThreshold(t *testing.T) {
	t.Parallel()

	strict, err := NewMatcher(0)
	if err != nil {
		t.Fatal(err)
	}
	ix := NewIndex(searchFixture())
	if got := strict.Search(ix, "asnr"); len(got) != 0 {
		t.Errorf("zero threshold matched a typo: %v", ids(got))
	}
	if got := strict.Search(ix, "asmr"); !slices.Equal(ids(got), []int64{3}) {
		t.Errorf("zero threshold exact = %v", ids(got))
	}
}
