// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"cmp"
	"context"
	"time"

	"github.com/tl-toroama/catalog/internal/recommend"
)

// Relevance tier names, as reported in recommend tier stats.
const (
	TierCast     = "cast"
	TierTags     = "tags"
	TierCircle   = "circle"
	TierCategory = "category"
)

func workKey(w *Work) int64 { return w.ID }

// RelatedWorks returns up to limit works related to the work with id. The
// first half comes from works sharing a cast member; the rest from tag
// overlap, then the same circle, then the same category. The target never
// appears and no work appears twice. An unknown target yields no works.
func (e *Engine) RelatedWorks(ctx context.Context, id int64, limit int) []Work {
	start := time.Now()

	var target *Work
	pool := e.available(ctx)
	for _, w := range pool {
		if w.ID == id {
			target = w
			break
		}
	}
	if target == nil {
		e.logger.Debug().Int64("work_id", id).Msg("Related works requested for unknown work")
		return e.finish(ctx, "related_works", start, nil)
	}

	res := recommend.Run(e.recommend, limit, workKey, e.relatedPlan(target, pool), target.ID)
	return e.finish(ctx, "related_works", start, res.Items)
}

func (e *Engine) relatedPlan(target *Work, pool []*Work) recommend.Plan[*Work] {
	others := func(keep func(*Work) bool) []*Work {
		return excluding(pool, target.ID, keep)
	}

	cast := recommend.Tier[*Work]{Name: TierCast, Candidates: func() []*Work {
		if len(target.Cast) == 0 {
			return nil
		}
		names := setOf(target.Cast)
		works := others(func(w *Work) bool { return overlap(w.Cast, names) > 0 })
		sortStable(works, byReleaseDesc)
		return works
	}}

	tags := recommend.Tier[*Work]{Name: TierTags, Candidates: func() []*Work {
		if len(target.Tags) == 0 {
			return nil
		}
		return rankByTagOverlap(pool, target.ID, setOf(target.Tags), byReleaseDesc)
	}}

	circle := recommend.Tier[*Work]{Name: TierCircle, Candidates: func() []*Work {
		if !target.HasCircle() {
			return nil
		}
		works := others(func(w *Work) bool { return w.CircleID == target.CircleID })
		sortStable(works, byReleaseDesc)
		return works
	}}

	category := recommend.Tier[*Work]{Name: TierCategory, Candidates: func() []*Work {
		if target.CategoryLabel == "" {
			return nil
		}
		works := others(func(w *Work) bool { return w.CategoryLabel == target.CategoryLabel })
		sortStable(works, byReleaseDesc)
		return works
	}}

	return recommend.Plan[*Work]{
		Primary:  []recommend.Tier[*Work]{cast},
		Fallback: []recommend.Tier[*Work]{tags, circle, category},
	}
}

// PopularWorksByCircle returns the best rated works of a circle other than
// excludeID.
func (e *Engine) PopularWorksByCircle(ctx context.Context, circleID, excludeID int64, limit int) []Work {
	start := time.Now()
	works := e.availableWhere(ctx, func(w *Work) bool {
		return w.CircleID == circleID && w.ID != excludeID
	})
	sortStable(works, byPopularity)
	return e.finish(ctx, "popular_by_circle", start, truncate(works, limitOr(limit, DefaultRelatedLimit)))
}

// PopularWorksByActor returns the best rated works featuring name other
// than excludeID.
func (e *Engine) PopularWorksByActor(ctx context.Context, name string, excludeID int64, limit int) []Work {
	start := time.Now()
	works := e.availableWhere(ctx, func(w *Work) bool {
		return w.ID != excludeID && w.HasCast(name)
	})
	sortStable(works, byPopularity)
	return e.finish(ctx, "popular_by_actor", start, truncate(works, limitOr(limit, DefaultRelatedLimit)))
}

// SimilarWorksByTags ranks works by how many of tags they share, then by
// rating and release date. The work with id is excluded.
func (e *Engine) SimilarWorksByTags(ctx context.Context, id int64, tags []string, limit int) []Work {
	start := time.Now()
	if len(tags) == 0 {
		return e.finish(ctx, "similar_by_tags", start, nil)
	}
	works := rankByTagOverlap(e.available(ctx), id, setOf(tags), byPopularity)
	return e.finish(ctx, "similar_by_tags", start, truncate(works, limitOr(limit, DefaultRelatedLimit)))
}

// excluding returns the works of pool other than excludeID that satisfy keep.
func excluding(pool []*Work, excludeID int64, keep func(*Work) bool) []*Work {
	out := make([]*Work, 0)
	for _, w := range pool {
		if w.ID != excludeID && keep(w) {
			out = append(out, w)
		}
	}
	return out
}

// rankByTagOverlap selects works sharing at least one tag and orders them by
// match count, then by tie.
func rankByTagOverlap(pool []*Work, excludeID int64, tags map[string]struct{}, tie func(a, b *Work) int) []*Work {
	matches := make(map[*Work]int)
	works := excluding(pool, excludeID, func(w *Work) bool {
		n := overlap(w.Tags, tags)
		if n > 0 {
			matches[w] = n
		}
		return n > 0
	})
	sortStable(works, func(a, b *Work) int {
		if c := cmp.Compare(matches[b], matches[a]); c != 0 {
			return c
		}
		return tie(a, b)
	})
	return works
}

func setOf(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// overlap counts the entries of values present in set, duplicates included.
func overlap(values []string, set map[string]struct{}) int {
	n := 0
	for _, v := range values {
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}
