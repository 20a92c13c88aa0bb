// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"context"
	"slices"
	"testing"
)

func saleFixture() *Engine {
	price := func(dl, fa int) func(*Work) {
		return func(w *Work) {
			if dl > 0 {
				w.Listings.DLsite.Price = ptr(dl)
			}
			if fa > 0 {
				w.Listings.FANZA.Price = ptr(fa)
			}
		}
	}
	dlDiscount := func(r float64) func(*Work) { return func(w *Work) { w.Listings.DLsite.DiscountRate = ptr(r) } }
	saleEnd := func(dl, fa string) func(*Work) {
		return func(w *Work) {
			w.Listings.DLsite.SaleEnd = dl
			w.Listings.FANZA.SaleEnd = fa
		}
	}

	return newTestEngine([]Work{
		work(1, "2024-01-01", onSale(50), genre("音声"), price(1000, 0), dlDiscount(50), saleEnd("2024-07-10", "")),
		work(2, "2024-03-01", onSale(20), genre("ゲーム"), price(2000, 1800), saleEnd("2024-07-05", "2024-07-01")),
		work(3, "2024-02-01", onSale(80), category("ASMR"), price(0, 400), dlRating(4.1)),
		work(4, "2024-04-01", onSale(10), category("CG集"), dlRating(4.8)),
		work(5, "2024-05-01", genre("音声"), price(100, 0)),
	})
}

func TestSaleBrowseSorts(t *testing.T) {
	t.Parallel()

	e := saleFixture()
	tests := []struct {
		sort SaleSort
		want []int64
	}{
		{SaleSortDiscount, []int64{3, 1, 2, 4}},
		{SaleSortPriceAsc, []int64{3, 1, 2, 4}},
		{SaleSortDeadline, []int64{2, 1, 3, 4}},
		{SaleSortRating, []int64{4, 3, 1, 2}},
		{SaleSortNew, []int64{4, 2, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			t.Parallel()
			got := ids(e.SaleBrowse(context.Background(), SaleQuery{Sort: tt.sort}))
			if !slices.Equal(got, tt.want) {
				t.Errorf("SaleBrowse(%s) = %v, want %v", tt.sort, got, tt.want)
			}
		})
	}
}

func TestSaleBrowseFilters(t *testing.T) {
	t.Parallel()

	e := saleFixture()
	ctx := context.Background()

	if got := ids(e.SaleBrowse(ctx, SaleQuery{Genre: SaleGenreVoice})); !slices.Equal(got, []int64{3, 1}) {
		t.Errorf("voice = %v", got)
	}
	if got := ids(e.SaleBrowse(ctx, SaleQuery{Genre: SaleGenreGame})); !slices.Equal(got, []int64{2}) {
		t.Errorf("game = %v", got)
	}
	if got := ids(e.SaleBrowse(ctx, SaleQuery{MaxPrice: 500})); !slices.Equal(got, []int64{3, 1}) {
		t.Errorf("max 500 = %v", got)
	}
	if got := ids(e.SaleBrowse(ctx, SaleQuery{Limit: 2})); !slices.Equal(got, []int64{3, 1}) {
		t.Errorf("limit 2 = %v", got)
	}
}

func TestParseSaleOptions(t *testing.T) {
	t.Parallel()

	if g, err := ParseSaleGenre(""); err != nil || g != SaleGenreAll {
		t.Errorf("ParseSaleGenre(\"\") = %q, %v", g, err)
	}
	if _, err := ParseSaleGenre("anime"); err == nil {
		t.Error("expected error for unknown genre")
	}
	if s, err := ParseSaleSort("deadline"); err != nil || s != SaleSortDeadline {
		t.Errorf("ParseSaleSort = %q, %v", s, err)
	}
	if _, err := ParseSaleSort("random"); err == nil {
		t.Error("expected error for unknown sort")
	}
	for _, p := range []int{0, 100, 2000} {
		if !ValidPriceCeiling(p) {
			t.Errorf("ValidPriceCeiling(%d) = false", p)
		}
	}
	if ValidPriceCeiling(250) {
		t.Error("ValidPriceCeiling(250) = true")
	}
}
