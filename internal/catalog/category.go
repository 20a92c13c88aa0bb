// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package catalog

import "strings"

// Category is the closed set of work categories published by the
// marketplaces. Unrecognized labels map to CategoryUnknown; the raw label is
// kept on the Work.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryAudio
	CategoryGame
	CategoryCGSet
	CategoryVideo
	CategoryVoiceWork
)

var categoryLabels = map[Category]string{
	CategoryAudio:     "ASMR",
	CategoryGame:      "ゲーム",
	CategoryCGSet:     "CG集",
	CategoryVideo:     "動画",
	CategoryVoiceWork: "音声作品",
}

// ParseCategory maps a raw category label to its variant.
func ParseCategory(label string) Category {
	for c, l := range categoryLabels {
		if l == label {
			return c
		}
	}
	return CategoryUnknown
}

// String returns the marketplace label, or "" for CategoryUnknown.
func (c Category) String() string {
	return categoryLabels[c]
}

// Genre substrings used by the marketplaces.
const (
	genreAudio = "音声"
	genreGame  = "ゲーム"
	genreVoice = "ボイス"
	genreASMR  = "ASMR"
)

// Classification is derived once per work at ingestion so query sites never
// repeat substring checks on genre or category.
type Classification struct {
	Category Category

	// GenreAudio and GenreGame report the genre substrings 音声 and ゲーム.
	GenreAudio bool
	GenreGame  bool

	// AudioLike selects the binary search class (asmr vs game).
	AudioLike bool

	// Voice and Game are the sale browser genre classes.
	Voice bool
	Game  bool

	label string
}

// Classify derives the classification of a work from its raw genre and
// category strings.
func Classify(genre, category string) Classification {
	c := Classification{
		Category:   ParseCategory(category),
		GenreAudio: strings.Contains(genre, genreAudio),
		GenreGame:  strings.Contains(genre, genreGame),
	}
	audioCategory := c.Category == CategoryAudio || c.Category == CategoryVoiceWork

	if genre != "" {
		c.AudioLike = c.GenreAudio ||
			strings.Contains(genre, genreVoice) ||
			strings.Contains(genre, genreASMR)
		c.Voice = c.GenreAudio
		c.Game = c.GenreGame
	} else {
		c.AudioLike = audioCategory
		c.Voice = audioCategory
		c.Game = c.Category == CategoryGame
	}

	switch {
	case c.GenreAudio:
		c.label = CategoryAudio.String()
	case c.GenreGame:
		c.label = CategoryGame.String()
	default:
		c.label = category
	}
	return c
}

// Label is the display label: genre wins over the raw category.
func (c Classification) Label() string {
	return c.label
}
