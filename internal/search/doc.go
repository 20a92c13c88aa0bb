// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package search implements the flattened search projection of the catalog
and the fuzzy search, filter and sort pipeline that runs over it.

Projection:

Project turns available works into Items, the compact display-ready records
published as search-index.json. Item JSON keys are short (t, c, cv, tg, ...)
because the index is shipped to clients whole.

Pipeline:

Run applies three stages in a fixed order, always starting from the full
projection:

 1. Search: whitespace tokens are matched one after another, each token
    narrowing the survivors of the previous one (AND composition).
 2. Filter: category, on-sale, platform and price ceiling predicates.
 3. Sort: one of new, discount, price, cospa, rank or rating.

Matching:

Matcher scores a token against the title, cast, circle and tag fields of an
item. A field score is the minimal number of edits needed to turn the token
into some substring of the field, divided by the token length, so 0 is an
exact substring and 1 is no resemblance. A field matches when its score is
within the threshold (0.4 by default). Matching fields are combined into a
weighted product and results are ordered best first. Text is case folded
and width folded, so "ＡＳＭＲ" matches "asmr".

Index pre-normalizes every item once; reuse it across queries.
*/
package search
