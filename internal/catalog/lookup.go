// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var rjCodePattern = regexp.MustCompile(`(?i)^RJ\d+$`)

// WorkByID returns the available work with id.
func (e *Engine) WorkByID(ctx context.Context, id int64) (Work, bool) {
	return e.findOne(ctx, "work_by_id", func(w *Work) bool { return w.ID == id })
}

// WorkByRJCode returns the available work whose DLsite product id is code.
func (e *Engine) WorkByRJCode(ctx context.Context, code string) (Work, bool) {
	if code == "" {
		return Work{}, false
	}
	return e.findOne(ctx, "work_by_rj_code", func(w *Work) bool { return w.Listings.DLsite.ProductID == code })
}

// ResolveWork accepts either a numeric id or an RJ code (any case).
func (e *Engine) ResolveWork(ctx context.Context, ref string) (Work, bool) {
	ref = strings.TrimSpace(ref)
	if rjCodePattern.MatchString(ref) {
		return e.WorkByRJCode(ctx, strings.ToUpper(ref))
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return Work{}, false
	}
	return e.WorkByID(ctx, id)
}

func (e *Engine) findOne(ctx context.Context, query string, match func(*Work) bool) (Work, bool) {
	start := time.Now()
	for _, w := range e.available(ctx) {
		if match(w) {
			return e.finish(ctx, query, start, []*Work{w})[0], true
		}
	}
	e.finish(ctx, query, start, nil)
	return Work{}, false
}

// WorksByIDs returns the available works for ids in input order. Unknown
// and unavailable ids are dropped.
func (e *Engine) WorksByIDs(ctx context.Context, ids []int64) []Work {
	start := time.Now()
	if len(ids) == 0 {
		return e.finish(ctx, "works_by_ids", start, nil)
	}
	all := e.available(ctx)
	byID := make(map[int64]*Work, len(all))
	for _, w := range all {
		byID[w.ID] = w
	}
	out := make([]*Work, 0, len(ids))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return e.finish(ctx, "works_by_ids", start, out)
}
