// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package search

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tl-toroama/catalog/internal/catalog"
)

// Class is the binary projection class of an item.
type Class string

const (
	ClassASMR Class = "asmr"
	ClassGame Class = "game"
)

// Item is one work in the search projection.
type Item struct {
	ID         int64    `json:"id"`
	Title      string   `json:"t"`
	Circle     string   `json:"c"`
	Cast       []string `json:"cv"`
	Tags       []string `json:"tg"`
	Price      int      `json:"p"`
	ListPrice  int      `json:"dp"`
	Discount   *float64 `json:"dr"`
	Image      string   `json:"img"`
	Class      Class    `json:"cat"`
	Duration   int      `json:"dur,omitempty"`
	CGCount    int      `json:"cg,omitempty"`
	Release    string   `json:"rel"`
	DLsite     bool     `json:"dl"`
	FANZA      bool     `json:"fa"`
	DLsiteRank *int     `json:"dlRank"`
	FANZARank  *int     `json:"faRank"`
	Rating     *float64 `json:"rt"`
	Reviews    *int     `json:"rc"`
	SaleEnd    *string  `json:"saleEnd"`
}

// OnSale reports a positive discount.
func (it *Item) OnSale() bool {
	return it.Discount != nil && *it.Discount > 0
}

// Project converts works into search items: unavailable works are dropped
// and the rest are ordered newest first. Circle names are taken from
// Work.CircleName, so pass works enriched by the catalog engine.
func Project(works []catalog.Work) []Item {
	kept := make([]*catalog.Work, 0, len(works))
	for i := range works {
		if works[i].Available {
			kept = append(kept, &works[i])
		}
	}
	slices.SortStableFunc(kept, func(a, b *catalog.Work) int {
		return strings.Compare(b.ReleaseDate, a.ReleaseDate)
	})

	items := make([]Item, len(kept))
	for i, w := range kept {
		items[i] = project(w)
	}
	return items
}

func project(w *catalog.Work) Item {
	ls := w.Listings
	it := Item{
		ID:      w.ID,
		Title:   w.Title,
		Circle:  w.CircleName,
		Cast:    orEmpty(w.Cast),
		Tags:    orEmpty(w.Tags),
		Image:   w.ThumbnailURL,
		Release: w.ReleaseDate,
		DLsite:  ls.DLsite.Listed(),
		FANZA:   ls.FANZA.Listed(),
		Class:   ClassGame,
	}
	if w.Class.AudioLike {
		it.Class = ClassASMR
	}

	listPrice, hasList := ls.ListPrice()
	switch {
	case w.LowestPrice != nil && *w.LowestPrice != 0:
		it.Price = *w.LowestPrice
	case hasList:
		it.Price = listPrice
	}
	it.ListPrice = it.Price
	if hasList {
		it.ListPrice = listPrice
	}

	if w.MaxDiscountRate != nil && *w.MaxDiscountRate != 0 {
		it.Discount = ptr(*w.MaxDiscountRate)
	}

	switch it.Class {
	case ClassASMR:
		if d := w.Specs.DurationMinutes; d != nil {
			it.Duration = *d
		}
	case ClassGame:
		if n := w.Specs.CGCount; n != nil {
			it.CGCount = *n
		}
	}

	if r := ls.RankOr(catalog.DLsite, 0); r != 0 {
		it.DLsiteRank = ptr(r)
	}
	if r := ls.RankOr(catalog.FANZA, 0); r != 0 {
		it.FANZARank = ptr(r)
	}
	if r, ok := ls.PreferredRatingValue(); ok {
		it.Rating = ptr(r)
	}
	if n, ok := ls.PreferredReviewCount(); ok {
		it.Reviews = ptr(n)
	}
	if s, ok := ls.PreferredSaleEnd(); ok {
		it.SaleEnd = ptr(s)
	}
	return it
}

// UnitPrice formats the cost per unit: yen per minute for audio, yen per CG
// for games. ok is false when the item has no unit count.
func UnitPrice(it *Item) (string, bool) {
	switch {
	case it.Class == ClassASMR && it.Duration != 0:
		return fmt.Sprintf("%d円/分", int(math.Round(float64(it.Price)/float64(it.Duration)))), true
	case it.Class == ClassGame && it.CGCount != 0:
		return fmt.Sprintf("%d円/枚", int(math.Round(float64(it.Price)/float64(it.CGCount)))), true
	default:
		return "", false
	}
}

// costPerUnit is the cospa sort key; items without a unit count cost +Inf.
func costPerUnit(it *Item) float64 {
	switch {
	case it.Class == ClassASMR && it.Duration != 0:
		return float64(it.Price) / float64(it.Duration)
	case it.Class == ClassGame && it.CGCount != 0:
		return float64(it.Price) / float64(it.CGCount)
	default:
		return math.Inf(1)
	}
}

func ptr[T any](v T) *T { return &v }

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
