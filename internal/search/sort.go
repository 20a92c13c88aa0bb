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
	"time"

	"github.com/tl-toroama/catalog/internal/catalog"
)

// SortType selects a result order.
type SortType string

const (
	SortNew      SortType = "new"
	SortDiscount SortType = "discount"
	SortPrice    SortType = "price"
	SortCospa    SortType = "cospa"
	SortRank     SortType = "rank"
	SortRating   SortType = "rating"
)

// ParseSort validates a sort type; empty means new.
func ParseSort(s string) (SortType, error) {
	switch t := SortType(s); t {
	case "":
		return SortNew, nil
	case SortNew, SortDiscount, SortPrice, SortCospa, SortRank, SortRating:
		return t, nil
	default:
		return "", fmt.Errorf("%w: sort %q", ErrInvalidParam, s)
	}
}

// Sort returns a stably sorted copy of items. platform picks the rank used
// by SortRank. An unknown sort returns an unsorted copy.
func Sort(items []Item, sortType SortType, platform Platform) []Item {
	out := slices.Clone(items)
	if out == nil {
		out = []Item{}
	}

	var fn func(a, b *Item) int
	switch sortType {
	case SortNew:
		fn = func(a, b *Item) int { return releaseTime(b).Compare(releaseTime(a)) }
	case SortDiscount:
		fn = func(a, b *Item) int { return cmp.Compare(discountOrZero(b), discountOrZero(a)) }
	case SortPrice:
		fn = func(a, b *Item) int { return cmp.Compare(a.Price, b.Price) }
	case SortCospa:
		fn = func(a, b *Item) int { return cmp.Compare(costPerUnit(a), costPerUnit(b)) }
	case SortRank:
		fn = func(a, b *Item) int { return cmp.Compare(rankOrInf(a, platform), rankOrInf(b, platform)) }
	case SortRating:
		fn = func(a, b *Item) int { return cmp.Compare(ratingOrZero(b), ratingOrZero(a)) }
	default:
		return out
	}

	slices.SortStableFunc(out, func(a, b Item) int { return fn(&a, &b) })
	return out
}

// releaseTime parses rel; an unparseable date sorts as the oldest.
func releaseTime(it *Item) time.Time {
	t, _ := catalog.ParseTimestamp(it.Release)
	return t
}

func discountOrZero(it *Item) float64 {
	if it.Discount == nil {
		return 0
	}
	return *it.Discount
}

func ratingOrZero(it *Item) float64 {
	if it.Rating == nil {
		return 0
	}
	return *it.Rating
}

func rankOrInf(it *Item, platform Platform) float64 {
	r := it.DLsiteRank
	if platform == PlatformFANZA {
		r = it.FANZARank
	}
	if r == nil {
		return math.Inf(1)
	}
	return float64(*r)
}
