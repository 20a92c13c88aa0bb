// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"
)

// SaleGenre narrows the sale browser to a genre class.
type SaleGenre string

const (
	SaleGenreAll   SaleGenre = "all"
	SaleGenreVoice SaleGenre = "voice"
	SaleGenreGame  SaleGenre = "game"
)

// SaleSort orders sale browser results.
type SaleSort string

const (
	SaleSortDiscount    SaleSort = "discount"
	SaleSortPriceAsc    SaleSort = "price_asc"
	SaleSortDeadline    SaleSort = "deadline"
	SaleSortRating      SaleSort = "rating"
	SaleSortReviewCount SaleSort = "review_count"
	SaleSortNew         SaleSort = "new"
)

// PriceCeilings are the accepted sale browser price limits. 0 means none.
var PriceCeilings = []int{0, 100, 300, 500, 1000, 2000}

// SaleQuery parameterizes SaleBrowse. Zero values mean all genres, no price
// ceiling, discount order and DefaultSaleBrowseSize works.
type SaleQuery struct {
	Genre    SaleGenre
	MaxPrice int
	Sort     SaleSort
	Limit    int
}

// ParseSaleGenre validates a genre filter; empty means all.
func ParseSaleGenre(s string) (SaleGenre, error) {
	switch g := SaleGenre(s); g {
	case "":
		return SaleGenreAll, nil
	case SaleGenreAll, SaleGenreVoice, SaleGenreGame:
		return g, nil
	default:
		return "", fmt.Errorf("unknown sale genre %q", s)
	}
}

// ParseSaleSort validates a sale sort; empty means discount.
func ParseSaleSort(s string) (SaleSort, error) {
	switch o := SaleSort(s); o {
	case "":
		return SaleSortDiscount, nil
	case SaleSortDiscount, SaleSortPriceAsc, SaleSortDeadline, SaleSortRating, SaleSortReviewCount, SaleSortNew:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sale sort %q", s)
	}
}

// ValidPriceCeiling reports whether p is one of PriceCeilings.
func ValidPriceCeiling(p int) bool {
	return slices.Contains(PriceCeilings, p)
}

// SaleBrowse filters and reorders the on-sale works.
func (e *Engine) SaleBrowse(ctx context.Context, q SaleQuery) []Work {
	start := time.Now()
	works := truncate(e.saleWorks(ctx), limitOr(q.Limit, DefaultSaleBrowseSize))

	out := make([]*Work, 0, len(works))
	for _, w := range works {
		switch q.Genre {
		case SaleGenreVoice:
			if !w.Class.Voice {
				continue
			}
		case SaleGenreGame:
			if !w.Class.Game {
				continue
			}
		}
		if q.MaxPrice > 0 {
			p, ok := w.Listings.CheapestPrice()
			if !ok || p > q.MaxPrice {
				continue
			}
		}
		out = append(out, w)
	}

	if cmpFn := saleComparator(q.Sort); cmpFn != nil {
		sortStable(out, cmpFn)
	}
	return e.finish(ctx, "sale_browse", start, out)
}

func saleComparator(s SaleSort) func(a, b *Work) int {
	switch s {
	case SaleSortDiscount, "":
		return func(a, b *Work) int { return cmp.Compare(b.DiscountRate(), a.DiscountRate()) }
	case SaleSortPriceAsc:
		return func(a, b *Work) int { return cmp.Compare(cheapestOrInf(a), cheapestOrInf(b)) }
	case SaleSortDeadline:
		return func(a, b *Work) int { return cmp.Compare(saleEndOrInf(a), saleEndOrInf(b)) }
	case SaleSortRating:
		return func(a, b *Work) int {
			return cmp.Compare(b.Listings.PreferredRating(), a.Listings.PreferredRating())
		}
	case SaleSortReviewCount:
		return func(a, b *Work) int {
			return cmp.Compare(b.Listings.TotalReviews(), a.Listings.TotalReviews())
		}
	case SaleSortNew:
		return byReleaseDesc
	default:
		return nil
	}
}

func cheapestOrInf(w *Work) float64 {
	if p, ok := w.Listings.CheapestPrice(); ok {
		return float64(p)
	}
	return math.Inf(1)
}

func saleEndOrInf(w *Work) float64 {
	if t, ok := w.Listings.EarliestSaleEnd(); ok {
		return float64(t.UnixMilli())
	}
	return math.Inf(1)
}
