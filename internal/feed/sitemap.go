package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"folio/internal/content"
	"folio/internal/models"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// staticPages are always listed, in this order.
var staticPages = []struct {
	path       string
	changeFreq string
	priority   string
}{
	{"/", "daily", "1.0"},
	{"/articles", "daily", "0.9"},
	{"/authors", "weekly", "0.5"},
	{"/issues", "weekly", "0.5"},
	{"/about", "monthly", "0.3"},
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap renders the XML sitemap: static pages, then articles (weekly,
// 0.8), authors (monthly, 0.6) and issues (monthly, 0.7).
func Sitemap(site Site, articles []content.ArticleView, authors []models.Author, issues []models.Issue) ([]byte, error) {
	set := urlset{Xmlns: sitemapNS}

	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: site.URL + p.path, ChangeFreq: p.changeFreq, Priority: p.priority})
	}
	for _, a := range articles {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        site.ArticleURL(a.Slug),
			LastMod:    lastMod(a.UpdatedAt),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, a := range authors {
		set.URLs = append(set.URLs, sitemapURL{Loc: site.AuthorURL(a.Slug), ChangeFreq: "monthly", Priority: "0.6"})
	}
	for _, i := range issues {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        site.IssueURL(i.Slug),
			LastMod:    lastMod(i.PublishedAt),
			ChangeFreq: "monthly",
			Priority:   "0.7",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
