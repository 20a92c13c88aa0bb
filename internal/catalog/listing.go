// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"math"
	"time"
)

// Marketplace identifies one of the two sales channels.
type Marketplace int

const (
	DLsite Marketplace = iota
	FANZA
)

func (m Marketplace) String() string {
	if m == FANZA {
		return "fanza"
	}
	return "dlsite"
}

// Listing is a work's presence on one marketplace. Pointer fields are nil
// when the upstream value is absent.
type Listing struct {
	ProductID    string   `json:"product_id,omitempty"`
	URL          string   `json:"url,omitempty"`
	Price        *int     `json:"price"`
	DiscountRate *float64 `json:"discount_rate"`
	SaleEnd      string   `json:"sale_end,omitempty"`
	Rating       *float64 `json:"rating"`
	ReviewCount  *int     `json:"review_count"`
	Rank         *int     `json:"rank"`
	RankDate     string   `json:"rank_date,omitempty"`
}

// Listed reports whether the work is sold on this marketplace.
func (l Listing) Listed() bool {
	return l.ProductID != ""
}

// DiscountedPrice returns round(price × (1 − rate/100)) when a non-zero
// discount applies, the list price otherwise. ok is false when there is no
// usable price.
func (l Listing) DiscountedPrice() (price int, ok bool) {
	if l.Price == nil || *l.Price == 0 {
		return 0, false
	}
	if l.DiscountRate == nil || *l.DiscountRate == 0 {
		return *l.Price, true
	}
	return int(math.Round(float64(*l.Price) * (1 - *l.DiscountRate/100))), true
}

// Listings pairs the DLsite and FANZA listings of a work and owns every
// "prefer one marketplace, fall back to the other" derivation.
type Listings struct {
	DLsite Listing `json:"dlsite"`
	FANZA  Listing `json:"fanza"`
}

// Get returns the listing for m.
func (ls Listings) Get(m Marketplace) Listing {
	if m == FANZA {
		return ls.FANZA
	}
	return ls.DLsite
}

// firstNonZero returns the DLsite value when present and non-zero, then the
// FANZA value under the same rule.
func firstNonZero[T int | float64](dl, fa *T) (T, bool) {
	if dl != nil && *dl != 0 {
		return *dl, true
	}
	if fa != nil && *fa != 0 {
		return *fa, true
	}
	var zero T
	return zero, false
}

func valueOrZero[T int | float64](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// ListPrice is the undiscounted price, DLsite first.
func (ls Listings) ListPrice() (int, bool) {
	return firstNonZero(ls.DLsite.Price, ls.FANZA.Price)
}

// CheapestPrice is the lower of the two discounted prices.
func (ls Listings) CheapestPrice() (int, bool) {
	dl, dlOK := ls.DLsite.DiscountedPrice()
	fa, faOK := ls.FANZA.DiscountedPrice()
	switch {
	case dlOK && faOK:
		return min(dl, fa), true
	case dlOK:
		return dl, true
	case faOK:
		return fa, true
	default:
		return 0, false
	}
}

// PreferredRating is the DLsite rating, falling back to FANZA, else 0.
func (ls Listings) PreferredRating() float64 {
	r, _ := firstNonZero(ls.DLsite.Rating, ls.FANZA.Rating)
	return r
}

// PreferredRatingValue is PreferredRating with presence reported.
func (ls Listings) PreferredRatingValue() (float64, bool) {
	return firstNonZero(ls.DLsite.Rating, ls.FANZA.Rating)
}

// BestRating is the higher of the two ratings, missing counting as 0.
func (ls Listings) BestRating() float64 {
	return max(valueOrZero(ls.DLsite.Rating), valueOrZero(ls.FANZA.Rating))
}

// RatedAtLeast reports whether either marketplace rating reaches threshold.
func (ls Listings) RatedAtLeast(threshold float64) bool {
	return (ls.DLsite.Rating != nil && *ls.DLsite.Rating >= threshold) ||
		(ls.FANZA.Rating != nil && *ls.FANZA.Rating >= threshold)
}

// TotalReviews sums both review counts, missing counting as 0.
func (ls Listings) TotalReviews() int {
	return valueOrZero(ls.DLsite.ReviewCount) + valueOrZero(ls.FANZA.ReviewCount)
}

// PreferredReviewCount is the DLsite count, falling back to FANZA.
func (ls Listings) PreferredReviewCount() (int, bool) {
	return firstNonZero(ls.DLsite.ReviewCount, ls.FANZA.ReviewCount)
}

// Rank returns the marketplace rank when present.
func (ls Listings) Rank(m Marketplace) (int, bool) {
	r := ls.Get(m).Rank
	if r == nil {
		return 0, false
	}
	return *r, true
}

// RankOr returns the rank for m, or fallback when it is absent or zero.
func (ls Listings) RankOr(m Marketplace, fallback int) int {
	if r, ok := ls.Rank(m); ok && r != 0 {
		return r
	}
	return fallback
}

// PreferredSaleEnd is the DLsite sale end, falling back to FANZA.
func (ls Listings) PreferredSaleEnd() (string, bool) {
	if ls.DLsite.SaleEnd != "" {
		return ls.DLsite.SaleEnd, true
	}
	if ls.FANZA.SaleEnd != "" {
		return ls.FANZA.SaleEnd, true
	}
	return "", false
}

// EarliestSaleEnd is the earlier parseable sale end of the two listings.
func (ls Listings) EarliestSaleEnd() (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)
	for _, raw := range []string{ls.DLsite.SaleEnd, ls.FANZA.SaleEnd} {
		t, ok := ParseTimestamp(raw)
		if !ok {
			continue
		}
		if !found || t.Before(earliest) {
			earliest, found = t, true
		}
	}
	return earliest, found
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02",
}

// ParseTimestamp parses the date and timestamp shapes found in snapshots.
func ParseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
