// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

// Package catalog holds the Work and Circle domain model and the query
// engine that answers every ranking, listing, aggregation and relevance
// query over an immutable snapshot.
package catalog

import "slices"

// Work is a single catalog item listed on one or both marketplaces.
type Work struct {
	ID            int64          `json:"id"`
	CircleID      int64          `json:"circle_id,omitempty"`
	CircleName    string         `json:"circle_name,omitempty"`
	Title         string         `json:"title"`
	Genre         string         `json:"genre,omitempty"`
	CategoryLabel string         `json:"category,omitempty"`
	Class         Classification `json:"-"`
	ReleaseDate   string         `json:"release_date,omitempty"`
	ThumbnailURL  string         `json:"thumbnail_url,omitempty"`
	SampleImages  []string       `json:"sample_images"`

	Listings Listings `json:"listings"`

	// Upstream aggregates, trusted as-is.
	LowestPrice     *int     `json:"lowest_price"`
	MaxDiscountRate *float64 `json:"max_discount_rate"`
	OnSale          bool     `json:"is_on_sale"`

	Tags      []string     `json:"tags"`
	Cast      []string     `json:"cast"`
	Specs     KillerWords  `json:"specs"`
	Editorial Editorial    `json:"editorial"`
	Reviews   []UserReview `json:"user_reviews"`

	Available bool `json:"-"`
}

// HasCircle reports whether the work references a circle.
func (w *Work) HasCircle() bool {
	return w.CircleID != 0
}

// HasTag reports exact membership of tag.
func (w *Work) HasTag(tag string) bool {
	return slices.Contains(w.Tags, tag)
}

// HasCast reports exact membership of name in the cast list.
func (w *Work) HasCast(name string) bool {
	return slices.Contains(w.Cast, name)
}

// DiscountRate returns MaxDiscountRate or 0.
func (w *Work) DiscountRate() float64 {
	if w.MaxDiscountRate == nil {
		return 0
	}
	return *w.MaxDiscountRate
}

// KillerWords are the genre-specific product highlights.
type KillerWords struct {
	// Audio
	DurationMinutes *int     `json:"duration_minutes"`
	Situations      []string `json:"situations"`
	FetishTags      []string `json:"fetish_tags"`

	// Games
	CGCount       *int     `json:"cg_count"`
	CGDiffCount   *int     `json:"cg_diff_count"`
	HSceneCount   *int     `json:"h_scene_count"`
	PlayTimeHours *float64 `json:"play_time_hours"`
	GameFeatures  []string `json:"game_features"`
}

// Editorial is the generated editorial copy attached to a work.
type Editorial struct {
	Summary         string `json:"summary,omitempty"`
	RecommendReason string `json:"recommend_reason,omitempty"`
	ClickTitle      string `json:"click_title,omitempty"`
	TargetAudience  string `json:"target_audience,omitempty"`
	AppealPoints    string `json:"appeal_points,omitempty"`
	Warnings        string `json:"warnings,omitempty"`
	Review          string `json:"review,omitempty"`
}

// UserReview is one end-user review scraped from a marketplace.
type UserReview struct {
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	Date         string  `json:"date,omitempty"`
	IsPurchased  bool    `json:"is_purchased,omitempty"`
	HelpfulCount int     `json:"helpful_count,omitempty"`
	Title        string  `json:"title,omitempty"`
}

// Circle is a publisher or creator group.
type Circle struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	DLsiteID  string `json:"dlsite_id,omitempty"`
	FANZAID   string `json:"fanza_id,omitempty"`
	MainGenre string `json:"main_genre,omitempty"`
	WorkCount int    `json:"work_count"`
}

// NameCount is an aggregated actor or tag with the number of works carrying it.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"work_count"`
}

// CircleWorks is a resolved circle and its available works. Circle is nil
// when no circle has the requested name.
type CircleWorks struct {
	Circle *Circle `json:"circle"`
	Works  []Work  `json:"works"`
}
