// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package search

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func filterFixture() []Item {
	return []Item{
		{ID: 1, Class: ClassASMR, Price: 100, Discount: ptrTo(50.0), DLsite: true},
		{ID: 2, Class: ClassGame, Price: 1500, DLsite: true, FANZA: true},
		{ID: 3, Class: ClassASMR, Price: 500, Discount: ptrTo(0.0), FANZA: true},
		{ID: 4, Class: ClassGame, Price: 300, Discount: ptrTo(30.0), FANZA: true},
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"zero filter", Filter{}, []int64{1, 2, 3, 4}},
		{"all", Filter{Category: CategoryAll, Platform: PlatformAll}, []int64{1, 2, 3, 4}},
		{"asmr", Filter{Category: CategoryASMR}, []int64{1, 3}},
		{"game", Filter{Category: CategoryGame}, []int64{2, 4}},
		{"on sale requires positive discount", Filter{OnSaleOnly: true}, []int64{1, 4}},
		{"dlsite", Filter{Platform: PlatformDLsite}, []int64{1, 2}},
		{"fanza", Filter{Platform: PlatformFANZA}, []int64{2, 3, 4}},
		{"price ceiling inclusive", Filter{MaxPrice: 500}, []int64{1, 3, 4}},
		{"combined", Filter{Category: CategoryGame, OnSaleOnly: true, Platform: PlatformFANZA, MaxPrice: 300}, []int64{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(Apply(filterFixture(), tt.filter)); !slices.Equal(got, tt.want) {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ID: 1, Class: ClassASMR, Price: 1000, Duration: 100, Release: "2024-01-01", Discount: ptrTo(10.0), DLsiteRank: ptrTo(5), Rating: ptrTo(4.0)},
		{ID: 2, Class: ClassASMR, Price: 300, Release: "not a date", FANZARank: ptrTo(1)},
		{ID: 3, Class: ClassGame, Price: 2000, CGCount: 400, Release: "2024-03-01", Discount: ptrTo(70.0), DLsiteRank: ptrTo(2), FANZARank: ptrTo(9), Rating: ptrTo(4.8)},
		{ID: 4, Class: ClassASMR, Price: 600, Duration: 30, Release: "2023-12-31", Rating: ptrTo(4.5)},
	}

	tests := []struct {
		sort     SortType
		platform Platform
		want     []int64
	}{
		{SortNew, PlatformAll, []int64{3, 1, 4, 2}},
		{SortDiscount, PlatformAll, []int64{3, 1, 2, 4}},
		{SortPrice, PlatformAll, []int64{2, 4, 1, 3}},
		{SortCospa, PlatformAll, []int64{3, 1, 4, 2}},
		{SortRank, PlatformAll, []int64{3, 1, 2, 4}},
		{SortRank, PlatformFANZA, []int64{2, 3, 1, 4}},
		{SortRating, PlatformAll, []int64{3, 4, 1, 2}},
		{SortType("bogus"), PlatformAll, []int64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort)+"/"+string(tt.platform), func(t *testing.T) {
			t.Parallel()
			got := Sort(items, tt.sort, tt.platform)
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("Sort(%s) = %v, want %v", tt.sort, ids(got), tt.want)
			}
		})
	}

	if items[0].ID != 1 || items[1].ID != 2 {
		t.Error("Sort modified its input")
	}
}

func TestCospaMissingDurationSortsLast(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ID: 1, Class: ClassASMR, Price: 10},
		{ID: 2, Class: ClassASMR, Price: 5000, Duration: 10},
		{ID: 3, Class: ClassASMR, Price: 100, Duration: 50},
	}
	got := ids(Sort(items, SortCospa, PlatformAll))
	if got[len(got)-1] != 1 {
		t.Errorf("cospa order = %v, item without duration must be last", got)
	}
	if c := costPerUnit(&items[0]); !math.IsInf(c, 1) {
		t.Errorf("costPerUnit without duration = %v", c)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	if c, err := ParseCategory(""); err != nil || c != CategoryAll {
		t.Errorf("ParseCategory(\"\") = %q, %v", c, err)
	}
	if _, err := ParseCategory("video"); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("ParseCategory(video) error = %v", err)
	}
	if p, err := ParsePlatform("fanza"); err != nil || p != PlatformFANZA {
		t.Errorf("ParsePlatform(fanza) = %q, %v", p, err)
	}
	if _, err := ParsePlatform("steam"); err == nil {
		t.Error("ParsePlatform(steam) should fail")
	}
	if s, err := ParseSort(""); err != nil || s != SortNew {
		t.Errorf("ParseSort(\"\") = %q, %v", s, err)
	}
	if _, err := ParseSort("random"); err == nil {
		t.Error("ParseSort(random) should fail")
	}

	prices := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"all", 0, false},
		{"300", 300, false},
		{"2000", 2000, false},
		{"0", 0, true},
		{"250", 0, true},
		{"cheap", 0, true},
	}
	for _, tt := range prices {
		got, err := ParseMaxPrice(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMaxPrice(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ID: 1, Title: "Sleep Story", Class: ClassASMR, Price: 800, Release: "2024-01-01", Tags: []string{}, Cast: []string{}},
		{ID: 2, Title: "Sleep Talk", Class: ClassASMR, Price: 300, Release: "2024-02-01", Tags: []string{}, Cast: []string{}},
		{ID: 3, Title: "Sleep Quest", Class: ClassGame, Price: 200, Release: "2024-03-01", Tags: []string{}, Cast: []string{}},
		{ID: 4, Title: "Battle", Class: ClassASMR, Price: 100, Release: "2024-04-01", Tags: []string{}, Cast: []string{}},
	}

	res := Run(items, Query{
		Text:   "sleep",
		Filter: Filter{Category: CategoryASMR, MaxPrice: 1000},
		Sort:   SortPrice,
	})
	if res.Total != 4 || res.Count != 2 {
		t.Errorf("Total/Count = %d/%d, want 4/2", res.Total, res.Count)
	}
	if !slices.Equal(ids(res.Items), []int64{2, 1}) {
		t.Errorf("Items = %v, want [2 1]", ids(res.Items))
	}
}
