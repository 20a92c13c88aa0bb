// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

// Package sitemap renders sitemap.xml for the catalog site: the fixed
// top-level pages followed by one entry per work, actor, tag and circle.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tl-toroama/catalog/internal/logging"
)

// Namespace is the sitemap protocol namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Change frequencies used by the catalog.
const (
	Daily   = "daily"
	Weekly  = "weekly"
	Monthly = "monthly"
)

// URL is one <url> entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// URLSet is the sitemap document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Source lists the dynamic pages. *catalog.Engine implements it.
type Source interface {
	AllWorkIDs(ctx context.Context) []int64
	AllActorNames(ctx context.Context) []string
	AllTagNames(ctx context.Context) []string
	AllCircleNames(ctx context.Context) []string
}

type staticPage struct {
	path       string
	priority   string
	changeFreq string
}

var staticPages = []staticPage{
	{"", "1.0", Daily},
	{"/search/", "0.7", Weekly},
	{"/cv/", "0.7", Weekly},
	{"/tags/", "0.7", Weekly},
	{"/circles/", "0.7", Weekly},
	{"/privacy/", "0.3", Monthly},
}

// Counts summarizes a generated sitemap.
type Counts struct {
	Static  int `json:"static"`
	Works   int `json:"works"`
	Actors  int `json:"actors"`
	Tags    int `json:"tags"`
	Circles int `json:"circles"`
}

// Total is the number of <url> entries.
func (c Counts) Total() int {
	return c.Static + c.Works + c.Actors + c.Tags + c.Circles
}

// Generator builds sitemaps for one site.
type Generator struct {
	baseURL string
	source  Source
	now     func() time.Time
}

// NewGenerator returns a Generator for baseURL (trailing slash ignored).
func NewGenerator(baseURL string, source Source) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		source:  source,
		now:     time.Now,
	}
}

// Build assembles the document. Static pages carry today's date as
// lastmod; dynamic pages carry none.
func (g *Generator) Build(ctx context.Context) (*URLSet, Counts) {
	today := g.now().UTC().Format(time.DateOnly)
	set := &URLSet{Xmlns: Namespace}
	var counts Counts

	for _, p := range staticPages {
		set.URLs = append(set.URLs, URL{
			Loc:        g.baseURL + p.path,
			LastMod:    today,
			ChangeFreq: p.changeFreq,
			Priority:   p.priority,
		})
	}
	counts.Static = len(staticPages)

	for _, id := range g.source.AllWorkIDs(ctx) {
		set.URLs = append(set.URLs, g.page("/works/"+strconv.FormatInt(id, 10)+"/", "0.8"))
		counts.Works++
	}
	counts.Actors = g.named(set, "/cv/", "0.7", g.source.AllActorNames(ctx))
	counts.Tags = g.named(set, "/tags/", "0.6", g.source.AllTagNames(ctx))
	counts.Circles = g.named(set, "/circles/", "0.6", g.source.AllCircleNames(ctx))

	logging.Debug().
		Int("works", counts.Works).
		Int("actors", counts.Actors).
		Int("tags", counts.Tags).
		Int("circles", counts.Circles).
		Msg("Sitemap built")
	return set, counts
}

func (g *Generator) page(path, priority string) URL {
	return URL{Loc: g.baseURL + path, ChangeFreq: Weekly, Priority: priority}
}

func (g *Generator) named(set *URLSet, prefix, priority string, names []string) int {
	for _, name := range names {
		set.URLs = append(set.URLs, g.page(prefix+url.PathEscape(name)+"/", priority))
	}
	return len(names)
}

// Write renders the sitemap to w.
func (g *Generator) Write(ctx context.Context, w io.Writer) (Counts, error) {
	set, counts := g.Build(ctx)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return counts, fmt.Errorf("failed to write sitemap header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return counts, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return counts, fmt.Errorf("failed to write sitemap: %w", err)
	}
	return counts, nil
}
