// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import (
	"slices"
	"testing"

	"github.com/goccy/go-json"
)

func TestFlexListShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `["a","b"]`, []string{"a", "b"}},
		{"null", `null`, nil},
		{"serialized", `"[\"a\",\"b\"]"`, []string{"a", "b"}},
		{"empty string", `""`, nil},
		{"garbage string", `"not a list"`, nil},
		{"wrong element type", `[1,2]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var rec struct {
				Tags FlexList[string] `json:"ai_tags"`
			}
			if err := json.Unmarshal([]byte(`{"ai_tags":`+tt.raw+`}`), &rec); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !slices.Equal([]string(rec.Tags), tt.want) {
				t.Errorf("got %v, want %v", rec.Tags, tt.want)
			}
		})
	}
}

func TestFlexNumbers(t *testing.T) {
	t.Parallel()

	var rec struct {
		Hours FlexFloat `json:"play_time_hours"`
		Count FlexInt   `json:"cg_count"`
		Rank  FlexInt   `json:"rank"`
	}
	if err := json.Unmarshal([]byte(`{"play_time_hours":"2.5","cg_count":12.0,"rank":"7"}`), &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := FlexFloat{Float: 2.5, Valid: true}
	if rec.Hours != want || rec.Count != (FlexInt{Int: 12, Valid: true}) || rec.Rank != (FlexInt{Int: 7, Valid: true}) {
		t.Errorf("got %+v", rec)
	}
}

func TestFlexNumbersMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"bool", `true`},
		{"object", `{}`},
		{"array", `[1]`},
		{"null", `null`},
		{"word", `"n/a"`},
		{"empty string", `""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var rec struct {
				Rank   FlexInt   `json:"rank"`
				Rating FlexFloat `json:"rating"`
				Sale   FlexBool  `json:"sale"`
			}
			raw := `{"rank":` + tt.raw + `,"rating":` + tt.raw + `,"sale":` + tt.raw + `}`
			if err := json.Unmarshal([]byte(raw), &rec); err != nil {
				t.Fatalf("Unmarshal(%s): %v", raw, err)
			}
			if rec.Rank.Valid || rec.Rank.Ptr() != nil {
				t.Errorf("rank = %+v, want absent", rec.Rank)
			}
			if rec.Rating.Valid || rec.Rating.Ptr() != nil {
				t.Errorf("rating = %+v, want absent", rec.Rating)
			}
			if rec.Sale.Valid {
				t.Errorf("sale = %+v, want absent", rec.Sale)
			}
		})
	}
}

func TestRecordIDShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want RecordID
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`42.0`, 42},
		{`42.5`, 0},
		{`-1`, 0},
		{`"abc"`, 0},
		{`true`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			var rec WorkRecord
			if err := json.Unmarshal([]byte(`{"id":`+tt.raw+`,"title":"t"}`), &rec); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if rec.ID != tt.want {
				t.Errorf("id = %d, want %d", rec.ID, tt.want)
			}
		})
	}
}

func TestWorksFromRecordsTolerateBadFields(t *testing.T) {
	t.Parallel()

	raw := `[
		{"id": 1, "title": "ok", "dlsite_rank": true, "is_on_sale": "1"},
		{"id": "2", "title": "string id", "price_dlsite": {}, "rating_fanza": []},
		{"id": "x", "title": "no usable id"}
	]`
	var records []WorkRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	works := WorksFromRecords(records)
	if len(works) != 2 {
		t.Fatalf("len(works) = %d, want 2", len(works))
	}
	if works[0].ID != 1 || works[1].ID != 2 {
		t.Errorf("ids = %d, %d", works[0].ID, works[1].ID)
	}
	if works[0].Listings.DLsite.Rank != nil {
		t.Errorf("dlsite rank = %d, want absent", *works[0].Listings.DLsite.Rank)
	}
	if works[1].Listings.DLsite.Price != nil || works[1].Listings.FANZA.Rating != nil {
		t.Errorf("listings = %+v, want price and rating absent", works[1].Listings)
	}
	if !works[0].OnSale {
		t.Error("is_on_sale \"1\" should decode as true")
	}
}

func TestWorkRecordConversion(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": 10,
		"circle_id": 3,
		"circle_name": "ignored",
		"title": "Title",
		"genre": "音声",
		"category": "ASMR",
		"release_date": "2024-05-01",
		"dlsite_product_id": "RJ100",
		"price_dlsite": 1100,
		"discount_rate_dlsite": 30,
		"rating_fanza": "4.5",
		"dlsite_rank": 4,
		"lowest_price": 770,
		"max_discount_rate": 30,
		"is_on_sale": true,
		"ai_tags": "[\"癒し\"]",
		"cv_names": ["A"],
		"user_reviews": "broken",
		"duration_minutes": 60
	}`
	var rec WorkRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	w := rec.Work()

	if !w.Available {
		t.Error("missing is_available should count as available")
	}
	if w.CircleID != 3 || w.CircleName != "" {
		t.Errorf("circle = %d %q", w.CircleID, w.CircleName)
	}
	if w.Class.Category != CategoryAudio || !w.Class.AudioLike {
		t.Errorf("class = %+v", w.Class)
	}
	if p, ok := w.Listings.DLsite.DiscountedPrice(); !ok || p != 770 {
		t.Errorf("DiscountedPrice = %d, %v", p, ok)
	}
	if w.Listings.PreferredRating() != 4.5 {
		t.Errorf("PreferredRating = %v", w.Listings.PreferredRating())
	}
	if !slices.Equal(w.Tags, []string{"癒し"}) || !slices.Equal(w.Cast, []string{"A"}) {
		t.Errorf("tags %v cast %v", w.Tags, w.Cast)
	}
	if w.Reviews == nil || len(w.Reviews) != 0 {
		t.Errorf("Reviews = %v, want empty", w.Reviews)
	}
	if w.SampleImages == nil {
		t.Error("SampleImages should be empty, not nil")
	}
	if w.Specs.DurationMinutes == nil || *w.Specs.DurationMinutes != 60 {
		t.Errorf("duration = %v", w.Specs.DurationMinutes)
	}

	var hidden WorkRecord
	if err := json.Unmarshal([]byte(`{"id":1,"is_available":false}`), &hidden); err != nil {
		t.Fatal(err)
	}
	if hidden.Work().Available {
		t.Error("is_available false should be unavailable")
	}
}

func TestCircleRecordConversion(t *testing.T) {
	t.Parallel()

	var rec CircleRecord
	if err := json.Unmarshal([]byte(`{"id":5,"name":"c","dlsite_id":"RG1","work_count":"12"}`), &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	c := rec.Circle()
	if c.ID != 5 || c.Name != "c" || c.DLsiteID != "RG1" || c.WorkCount != 12 {
		t.Errorf("Circle = %+v", c)
	}
}
