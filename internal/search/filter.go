// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package search

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tl-toroama/catalog/internal/catalog"
)

// ErrInvalidParam is wrapped by every Parse* error.
var ErrInvalidParam = errors.New("invalid search parameter")

// CategoryFilter restricts results to one Class.
type CategoryFilter string

const (
	CategoryAll  CategoryFilter = "all"
	CategoryASMR CategoryFilter = CategoryFilter(ClassASMR)
	CategoryGame CategoryFilter = CategoryFilter(ClassGame)
)

// Platform restricts results to one marketplace. It also selects the rank
// used by the rank sort.
type Platform string

const (
	PlatformAll    Platform = "all"
	PlatformDLsite Platform = "dlsite"
	PlatformFANZA  Platform = "fanza"
)

// Filter is the compound filter. Zero values disable each predicate.
type Filter struct {
	Category   CategoryFilter
	OnSaleOnly bool
	Platform   Platform
	MaxPrice   int // 0 means no ceiling; see catalog.PriceCeilings
}

// Apply returns the items passing every predicate of f, in input order.
func Apply(items []Item, f Filter) []Item {
	out := make([]Item, 0, len(items))
	for i := range items {
		if f.match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func (f Filter) match(it *Item) bool {
	if f.Category != "" && f.Category != CategoryAll && Class(f.Category) != it.Class {
		return false
	}
	if f.OnSaleOnly && !it.OnSale() {
		return false
	}
	switch f.Platform {
	case PlatformDLsite:
		if !it.DLsite {
			return false
		}
	case PlatformFANZA:
		if !it.FANZA {
			return false
		}
	}
	if f.MaxPrice > 0 && it.Price > f.MaxPrice {
		return false
	}
	return true
}

// ParseCategory validates a category filter; empty means all.
func ParseCategory(s string) (CategoryFilter, error) {
	switch c := CategoryFilter(s); c {
	case "":
		return CategoryAll, nil
	case CategoryAll, CategoryASMR, CategoryGame:
		return c, nil
	default:
		return "", fmt.Errorf("%w: category %q", ErrInvalidParam, s)
	}
}

// ParsePlatform validates a platform filter; empty means all.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case "":
		return PlatformAll, nil
	case PlatformAll, PlatformDLsite, PlatformFANZA:
		return p, nil
	default:
		return "", fmt.Errorf("%w: platform %q", ErrInvalidParam, s)
	}
}

// ParseMaxPrice validates a price ceiling. "" and "all" mean none.
func ParseMaxPrice(s string) (int, error) {
	if s == "" || s == "all" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 || !catalog.ValidPriceCeiling(n) {
		return 0, fmt.Errorf("%w: max price %q", ErrInvalidParam, s)
	}
	return n, nil
}
