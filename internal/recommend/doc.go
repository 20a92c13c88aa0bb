// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package recommend composes fallback-tiered relevance lists.

A relevance list is built from ordered candidate generators (tiers). Each
tier is a pure function returning candidates already ranked by that tier's
own criterion. Fill walks the tiers in order, skipping anything selected
earlier, and stops as soon as the requested capacity is reached; later tiers
are never evaluated once the list is full, and an exhausted later tier is
never backfilled from an earlier one.

A Plan splits the result into a primary half and a fallback half that share
one Seen set:

	eng, _ := recommend.NewEngine(recommend.DefaultConfig(), logger)
	res := recommend.Run(eng, 4, func(w *catalog.Work) int64 { return w.ID },
	    recommend.Plan[*catalog.Work]{
	        Primary:  []recommend.Tier[*catalog.Work]{castTier},
	        Fallback: []recommend.Tier[*catalog.Work]{tagTier, circleTier, categoryTier},
	    })

The package has no dependency on other internal packages; candidate
generators live next to the data they read.
*/
package recommend
