// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"cmp"
	"context"
	"strings"
	"time"
)

// NewWorks returns the newest works.
func (e *Engine) NewWorks(ctx context.Context, limit int) []Work {
	start := time.Now()
	works := e.available(ctx)
	sortStable(works, byReleaseDesc)
	return e.finish(ctx, "new_works", start, truncate(works, limitOr(limit, DefaultListLimit)))
}

// SaleWorks returns on-sale works by maximum discount rate, highest first.
func (e *Engine) SaleWorks(ctx context.Context, limit int) []Work {
	start := time.Now()
	works := e.saleWorks(ctx)
	return e.finish(ctx, "sale_works", start, truncate(works, limitOr(limit, DefaultListLimit)))
}

func (e *Engine) saleWorks(ctx context.Context) []*Work {
	works := e.availableWhere(ctx, func(w *Work) bool { return w.OnSale })
	sortStable(works, func(a, b *Work) int {
		return cmp.Compare(b.DiscountRate(), a.DiscountRate())
	})
	return works
}

// WorksByGenre returns works whose genre contains token, case-insensitively.
func (e *Engine) WorksByGenre(ctx context.Context, token string, limit int) []Work {
	start := time.Now()
	needle := strings.ToLower(token)
	works := e.availableWhere(ctx, func(w *Work) bool {
		return w.Genre != "" && strings.Contains(strings.ToLower(w.Genre), needle)
	})
	sortStable(works, byReleaseDesc)
	return e.finish(ctx, "works_by_genre", start, truncate(works, limitOr(limit, DefaultListLimit)))
}

// DLsiteRanking returns DLsite-ranked works by rank.
func (e *Engine) DLsiteRanking(ctx context.Context, limit int) []Work {
	start := time.Now()
	works := e.availableWhere(ctx, func(w *Work) bool { return w.Listings.DLsite.Rank != nil })
	sortStable(works, func(a, b *Work) int {
		return cmp.Compare(a.Listings.RankOr(DLsite, missingRank), b.Listings.RankOr(DLsite, missingRank))
	})
	return e.finish(ctx, "dlsite_ranking", start, truncate(works, limitOr(limit, DefaultListLimit)))
}

// FANZARanking returns FANZA-ranked audio and game works by rank.
func (e *Engine) FANZARanking(ctx context.Context, limit int) []Work {
	start := time.Now()
	works := e.availableWhere(ctx, func(w *Work) bool {
		return w.Listings.FANZA.Rank != nil && (w.Class.GenreAudio || w.Class.GenreGame)
	})
	sortStable(works, func(a, b *Work) int {
		return cmp.Compare(a.Listings.RankOr(FANZA, missingRank), b.Listings.RankOr(FANZA, missingRank))
	})
	return e.finish(ctx, "fanza_ranking", start, truncate(works, limitOr(limit, DefaultListLimit)))
}

// BargainWorks returns works whose lowest price is at most maxPrice,
// cheapest first. maxPrice <= 0 uses DefaultBargainPrice.
func (e *Engine) BargainWorks(ctx context.Context, maxPrice, limit int) []Work {
	start := time.Now()
	maxPrice = limitOr(maxPrice, DefaultBargainPrice)
	works := e.availableWhere(ctx, func(w *Work) bool {
		return w.LowestPrice != nil && *w.LowestPrice <= maxPrice
	})
	sortStable(works, func(a, b *Work) int {
		return cmp.Compare(*a.LowestPrice, *b.LowestPrice)
	})
	return e.finish(ctx, "bargain_works", start, truncate(works, limitOr(limit, DefaultListLimit)))
}

// VoiceRanking returns ranked audio works in composite rank order.
func (e *Engine) VoiceRanking(ctx context.Context, limit int) []Work {
	return e.compositeRanking(ctx, "voice_ranking", CategoryAudio, limit)
}

// GameRanking returns ranked game works in composite rank order.
func (e *Engine) GameRanking(ctx context.Context, limit int) []Work {
	return e.compositeRanking(ctx, "game_ranking", CategoryGame, limit)
}

func (e *Engine) compositeRanking(ctx context.Context, query string, category Category, limit int) []Work {
	start := time.Now()
	works := e.availableWhere(ctx, func(w *Work) bool {
		return w.Class.Category == category &&
			(w.Listings.DLsite.Rank != nil || w.Listings.FANZA.Rank != nil)
	})
	sortStable(works, byCompositeRank)
	return e.finish(ctx, query, start, truncate(works, limitOr(limit, DefaultListLimit)))
}

// HighRated returns works rated at least minRating on either marketplace,
// ordered by best rating, total reviews, then newest first. minRating <= 0
// uses DefaultMinRating.
func (e *Engine) HighRated(ctx context.Context, minRating float64, limit int) []Work {
	start := time.Now()
	if minRating <= 0 {
		minRating = DefaultMinRating
	}
	works := e.availableWhere(ctx, func(w *Work) bool { return w.Listings.RatedAtLeast(minRating) })
	sortStable(works, func(a, b *Work) int {
		if c := cmp.Compare(b.Listings.BestRating(), a.Listings.BestRating()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Listings.TotalReviews(), a.Listings.TotalReviews()); c != 0 {
			return c
		}
		return byReleaseDesc(a, b)
	})
	return e.finish(ctx, "high_rated", start, truncate(works, limitOr(limit, DefaultListLimit)))
}

// AllWorks returns every available work, newest first.
func (e *Engine) AllWorks(ctx context.Context) []Work {
	start := time.Now()
	works := e.available(ctx)
	sortStable(works, byReleaseDesc)
	return e.finish(ctx, "all_works", start, works)
}
