// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package validation

// Query parameter structs for the catalog API. The `query` tag names the
// parameter; zero values mean "use the default".

// ListRequest is a plain limited list.
type ListRequest struct {
	Limit int `query:"limit" validate:"min=0,max=500"`
}

// BargainRequest parameterizes the bargain list.
type BargainRequest struct {
	MaxPrice int `query:"max_price" validate:"min=0,max=100000"`
	Limit    int `query:"limit" validate:"min=0,max=500"`
}

// HighRatedRequest parameterizes the high-rated list.
type HighRatedRequest struct {
	MinRating float64 `query:"min_rating" validate:"min=0,max=5"`
	Limit     int     `query:"limit" validate:"min=0,max=500"`
}

// GenreRequest selects works by genre substring.
type GenreRequest struct {
	Genre string `query:"genre" validate:"required,max=64"`
	Limit int    `query:"limit" validate:"min=0,max=500"`
}

// WorkRefRequest names a work by id or RJ code.
type WorkRefRequest struct {
	Ref   string `query:"ref" validate:"required,max=32,workref"`
	Limit int    `query:"limit" validate:"min=0,max=20"`
}

// WorkIDsRequest looks up several works at once.
type WorkIDsRequest struct {
	IDs []int64 `query:"ids" validate:"required,min=1,max=100,dive,gt=0"`
}

// NameRequest names an actor, tag or circle.
type NameRequest struct {
	Name  string `query:"name" validate:"required,max=200"`
	Limit int    `query:"limit" validate:"min=0,max=100"`
}

// SaleBrowseRequest parameterizes the sale browser.
type SaleBrowseRequest struct {
	Genre    string `query:"genre" validate:"omitempty,oneof=all voice game"`
	MaxPrice int    `query:"max_price" validate:"price_ceiling"`
	Sort     string `query:"sort" validate:"omitempty,oneof=discount price_asc deadline rating review_count new"`
	Limit    int    `query:"limit" validate:"min=0,max=500"`
}

// SearchRequest parameterizes the search pipeline.
type SearchRequest struct {
	Q        string `query:"q" validate:"max=200"`
	Category string `query:"category" validate:"omitempty,oneof=all asmr game"`
	OnSale   bool   `query:"on_sale"`
	Platform string `query:"platform" validate:"omitempty,oneof=all dlsite fanza"`
	MaxPrice int    `query:"max_price" validate:"price_ceiling"`
	Sort     string `query:"sort" validate:"omitempty,oneof=new discount price cospa rank rating"`
	Limit    int    `query:"limit" validate:"min=0,max=1000"`
}

// SuggestRequest parameterizes name autocomplete.
type SuggestRequest struct {
	Prefix string `query:"prefix" validate:"required,max=64"`
	Kind   string `query:"kind" validate:"omitempty,oneof=actor tag circle"`
	Limit  int    `query:"limit" validate:"min=0,max=50"`
}
