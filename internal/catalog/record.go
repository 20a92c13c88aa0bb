// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var jsonNull = []byte("null")

// FlexList decodes a list that may arrive as a JSON array or as a string
// holding a serialized array. Anything unparseable becomes an empty list;
// a malformed nested field is never an error.
type FlexList[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (l *FlexList[T]) UnmarshalJSON(data []byte) error {
	*l = nil

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		raw = []byte(strings.TrimSpace(s))
		if len(raw) == 0 {
			return nil
		}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	*l = items
	return nil
}

// FlexInt is a nullable integer that accepts integral JSON numbers, floats
// with no fraction, and numeric strings. Parquet exports through DuckDB and
// Python writers disagree on these shapes. Any other token (bool, object,
// array, non-numeric string) leaves it invalid, the same as null.
type FlexInt struct {
	Int   int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	f, ok := parseFlexNumber(data)
	*n = FlexInt{Int: int(math.Round(f)), Valid: ok}
	return nil
}

// Ptr returns nil when the value is absent.
func (n FlexInt) Ptr() *int {
	if !n.Valid {
		return nil
	}
	v := n.Int
	return &v
}

// FlexFloat is a nullable float that accepts JSON numbers and numeric
// strings (DECIMAL columns).
type FlexFloat struct {
	Float float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (n *FlexFloat) UnmarshalJSON(data []byte) error {
	f, ok := parseFlexNumber(data)
	*n = FlexFloat{Float: f, Valid: ok}
	return nil
}

// Ptr returns nil when the value is absent.
func (n FlexFloat) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float
	return &v
}

// FlexBool is a nullable flag that accepts JSON booleans, 0/1 and the
// strings "true"/"false"/"0"/"1".
type FlexBool struct {
	Bool  bool
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	*b = FlexBool{}
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		raw = []byte(strings.TrimSpace(s))
	}
	if v, err := strconv.ParseBool(string(raw)); err == nil {
		*b = FlexBool{Bool: v, Valid: true}
	}
	return nil
}

// RecordID is a snapshot primary key. It accepts a JSON number or a numeric
// string; anything else decodes as 0, which marks the record unusable.
type RecordID int64

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	*id = 0
	f, ok := parseFlexNumber(data)
	if ok && f > 0 && f == math.Trunc(f) && f <= math.MaxInt64 {
		*id = RecordID(f)
	}
	return nil
}

// parseFlexNumber reports ok only for a finite number or a string holding
// one. Everything else is treated as absent.
func parseFlexNumber(data []byte) (float64, bool) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		raw = []byte(strings.TrimSpace(s))
	}
	if len(raw) == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WorkRecord is the flat snake_case shape of a work in the snapshot files.
type WorkRecord struct {
	ID         RecordID `json:"id"`
	CircleID   FlexInt  `json:"circle_id"`
	CircleName *string  `json:"circle_name"`
	Title      string   `json:"title"`
	Genre      *string  `json:"genre"`
	Category   *string  `json:"category"`

	ReleaseDate     *string `json:"release_date"`
	DLsiteProductID *string `json:"dlsite_product_id"`
	DLsiteURL       *string `json:"dlsite_url"`
	FANZAProductID  *string `json:"fanza_product_id"`
	FANZAURL        *string `json:"fanza_url"`
	ThumbnailURL    *string `json:"thumbnail_url"`

	SampleImages FlexList[string] `json:"sample_images"`

	PriceDLsite        FlexInt   `json:"price_dlsite"`
	PriceFANZA         FlexInt   `json:"price_fanza"`
	DiscountRateDLsite FlexFloat `json:"discount_rate_dlsite"`
	DiscountRateFANZA  FlexFloat `json:"discount_rate_fanza"`
	SaleEndDLsite      *string   `json:"sale_end_date_dlsite"`
	SaleEndFANZA       *string   `json:"sale_end_date_fanza"`

	LowestPrice     FlexInt   `json:"lowest_price"`
	MaxDiscountRate FlexFloat `json:"max_discount_rate"`
	IsOnSale        FlexBool  `json:"is_on_sale"`

	DLsiteRank     FlexInt `json:"dlsite_rank"`
	FANZARank      FlexInt `json:"fanza_rank"`
	DLsiteRankDate *string `json:"dlsite_rank_date"`
	FANZARankDate  *string `json:"fanza_rank_date"`

	AISummary         *string          `json:"ai_summary"`
	AIRecommendReason *string          `json:"ai_recommend_reason"`
	AIClickTitle      *string          `json:"ai_click_title"`
	AITags            FlexList[string] `json:"ai_tags"`
	AITargetAudience  *string          `json:"ai_target_audience"`
	AIAppealPoints    *string          `json:"ai_appeal_points"`
	AIWarnings        *string          `json:"ai_warnings"`
	AIReview          *string          `json:"ai_review"`

	CVNames         FlexList[string] `json:"cv_names"`
	DurationMinutes FlexInt          `json:"duration_minutes"`
	Situations      FlexList[string] `json:"situations"`
	FetishTags      FlexList[string] `json:"fetish_tags"`
	CGCount         FlexInt          `json:"cg_count"`
	CGDiffCount     FlexInt          `json:"cg_diff_count"`
	HSceneCount     FlexInt          `json:"h_scene_count"`
	PlayTimeHours   FlexFloat        `json:"play_time_hours"`
	GameFeatures    FlexList[string] `json:"game_features"`

	RatingDLsite      FlexFloat            `json:"rating_dlsite"`
	RatingFANZA       FlexFloat            `json:"rating_fanza"`
	ReviewCountDLsite FlexInt              `json:"review_count_dlsite"`
	ReviewCountFANZA  FlexInt              `json:"review_count_fanza"`
	UserReviews       FlexList[UserReview] `json:"user_reviews"`

	IsAvailable FlexBool `json:"is_available"`
}

// Work converts the record into the domain shape. The stored circle_name is
// ignored; names are resolved from circles at query time.
func (r *WorkRecord) Work() Work {
	genre, category := str(r.Genre), str(r.Category)

	w := Work{
		ID:            int64(r.ID),
		Title:         r.Title,
		Genre:         genre,
		CategoryLabel: category,
		Class:         Classify(genre, category),
		ReleaseDate:   str(r.ReleaseDate),
		ThumbnailURL:  str(r.ThumbnailURL),
		SampleImages:  nonNil(r.SampleImages),
		Listings: Listings{
			DLsite: Listing{
				ProductID:    str(r.DLsiteProductID),
				URL:          str(r.DLsiteURL),
				Price:        r.PriceDLsite.Ptr(),
				DiscountRate: r.DiscountRateDLsite.Ptr(),
				SaleEnd:      str(r.SaleEndDLsite),
				Rating:       r.RatingDLsite.Ptr(),
				ReviewCount:  r.ReviewCountDLsite.Ptr(),
				Rank:         r.DLsiteRank.Ptr(),
				RankDate:     str(r.DLsiteRankDate),
			},
			FANZA: Listing{
				ProductID:    str(r.FANZAProductID),
				URL:          str(r.FANZAURL),
				Price:        r.PriceFANZA.Ptr(),
				DiscountRate: r.DiscountRateFANZA.Ptr(),
				SaleEnd:      str(r.SaleEndFANZA),
				Rating:       r.RatingFANZA.Ptr(),
				ReviewCount:  r.ReviewCountFANZA.Ptr(),
				Rank:         r.FANZARank.Ptr(),
				RankDate:     str(r.FANZARankDate),
			},
		},
		LowestPrice:     r.LowestPrice.Ptr(),
		MaxDiscountRate: r.MaxDiscountRate.Ptr(),
		OnSale:          r.IsOnSale.Valid && r.IsOnSale.Bool,
		Tags:            nonNil(r.AITags),
		Cast:            nonNil(r.CVNames),
		Specs: KillerWords{
			DurationMinutes: r.DurationMinutes.Ptr(),
			Situations:      nonNil(r.Situations),
			FetishTags:      nonNil(r.FetishTags),
			CGCount:         r.CGCount.Ptr(),
			CGDiffCount:     r.CGDiffCount.Ptr(),
			HSceneCount:     r.HSceneCount.Ptr(),
			PlayTimeHours:   r.PlayTimeHours.Ptr(),
			GameFeatures:    nonNil(r.GameFeatures),
		},
		Editorial: Editorial{
			Summary:         str(r.AISummary),
			RecommendReason: str(r.AIRecommendReason),
			ClickTitle:      str(r.AIClickTitle),
			TargetAudience:  str(r.AITargetAudience),
			AppealPoints:    str(r.AIAppealPoints),
			Warnings:        str(r.AIWarnings),
			Review:          str(r.AIReview),
		},
		Reviews: nonNil(r.UserReviews),
		// A missing flag counts as available.
		Available: !r.IsAvailable.Valid || r.IsAvailable.Bool,
	}
	if r.CircleID.Valid {
		w.CircleID = int64(r.CircleID.Int)
	}
	return w
}

func nonNil[T any](l FlexList[T]) []T {
	if l == nil {
		return []T{}
	}
	return []T(l)
}

// CircleRecord is the flat snake_case shape of a circle.
type CircleRecord struct {
	ID        RecordID `json:"id"`
	Name      string   `json:"name"`
	DLsiteID  *string  `json:"dlsite_id"`
	FANZAID   *string  `json:"fanza_id"`
	MainGenre *string  `json:"main_genre"`
	WorkCount FlexInt  `json:"work_count"`
}

// Circle converts the record into the domain shape. WorkCount carries the
// stored value; queries recompute it.
func (r *CircleRecord) Circle() Circle {
	c := Circle{
		ID:        int64(r.ID),
		Name:      r.Name,
		DLsiteID:  str(r.DLsiteID),
		FANZAID:   str(r.FANZAID),
		MainGenre: str(r.MainGenre),
	}
	if r.WorkCount.Valid {
		c.WorkCount = r.WorkCount.Int
	}
	return c
}

// WorksFromRecords converts a record batch. Records without a usable id are
// dropped.
func WorksFromRecords(records []WorkRecord) []Work {
	works := make([]Work, 0, len(records))
	for i := range records {
		if records[i].ID <= 0 {
			continue
		}
		works = append(works, records[i].Work())
	}
	return works
}

// CirclesFromRecords converts a record batch. Records without a usable id
// are dropped.
func CirclesFromRecords(records []CircleRecord) []Circle {
	circles := make([]Circle, 0, len(records))
	for i := range records {
		if records[i].ID <= 0 {
			continue
		}
		circles = append(circles, records[i].Circle())
	}
	return circles
}
