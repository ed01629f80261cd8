// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feed builds the syndication documents: JSON Feed 1.1, RSS 2.0 and
// the XML sitemap. Callers pass published articles only.
package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"folio/internal/content"
	"folio/internal/markdown"
)

// JSONFeedVersion identifies the JSON Feed revision produced.
const JSONFeedVersion = "https://jsonfeed.org/version/1.1"

// Site describes the publication the documents belong to.
type Site struct {
	Title       string
	URL         string // absolute, no trailing slash
	Description string
}

// ArticleURL returns the public URL of an article.
func (s Site) ArticleURL(slug string) string { return s.URL + "/articles/" + slug }

// AuthorURL returns the public URL of an author page.
func (s Site) AuthorURL(slug string) string { return s.URL + "/authors/" + slug }

// IssueURL returns the public URL of an issue page.
func (s Site) IssueURL(slug string) string { return s.URL + "/issues/" + slug }

type jsonFeed struct {
	Version     string     `json:"version"`
	Title       string     `json:"title"`
	HomePageURL string     `json:"home_page_url"`
	FeedURL     string     `json:"feed_url"`
	Description string     `json:"description,omitempty"`
	Language    string     `json:"language,omitempty"`
	Items       []jsonItem `json:"items"`
}

type jsonAuthor struct {
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type jsonItem struct {
	ID            string       `json:"id"`
	URL           string       `json:"url"`
	Title         string       `json:"title"`
	ContentHTML   string       `json:"content_html"`
	ContentText   string       `json:"content_text,omitempty"`
	Summary       string       `json:"summary,omitempty"`
	Image         string       `json:"image,omitempty"`
	DatePublished *time.Time   `json:"date_published,omitempty"`
	DateModified  *time.Time   `json:"date_modified,omitempty"`
	Authors       []jsonAuthor `json:"authors,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
}

// JSONFeed renders a JSON Feed 1.1 document.
func JSONFeed(site Site, articles []content.ArticleView) ([]byte, error) {
	doc := jsonFeed{
		Version:     JSONFeedVersion,
		Title:       site.Title,
		HomePageURL: site.URL + "/",
		FeedURL:     site.URL + "/feed.json",
		Description: site.Description,
		Language:    "en",
		Items:       make([]jsonItem, 0, len(articles)),
	}

	for _, a := range articles {
		html, err := bodyHTML(a)
		if err != nil {
			return nil, err
		}
		updated := a.UpdatedAt.UTC()
		item := jsonItem{
			ID:            a.ID.String(),
			URL:           site.ArticleURL(a.Slug),
			Title:         a.Title,
			ContentHTML:   html,
			ContentText:   deref(a.Excerpt),
			Summary:       deref(a.Excerpt),
			Image:         deref(a.Image),
			DatePublished: published(a),
			DateModified:  &updated,
		}
		if a.Author != nil {
			item.Authors = []jsonAuthor{{Name: a.Author.Name, URL: site.AuthorURL(a.Author.Slug), Avatar: a.Author.Avatar}}
		}
		if a.Category != nil {
			item.Tags = []string{a.Category.Name}
		}
		doc.Items = append(doc.Items, item)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// RSS renders an RSS 2.0 document.
func RSS(site Site, articles []content.ArticleView, now time.Time) ([]byte, error) {
	f := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: site.URL + "/"},
		Description: site.Description,
		Created:     now,
	}

	for _, a := range articles {
		html, err := bodyHTML(a)
		if err != nil {
			return nil, err
		}
		item := &feeds.Item{
			Id:          site.ArticleURL(a.Slug),
			Title:       a.Title,
			Link:        &feeds.Link{Href: site.ArticleURL(a.Slug)},
			Description: deref(a.Excerpt),
			Content:     html,
			Updated:     a.UpdatedAt,
		}
		if p := published(a); p != nil {
			item.Created = *p
		}
		if a.Author != nil {
			item.Author = &feeds.Author{Name: a.Author.Name}
		}
		f.Items = append(f.Items, item)
	}

	out, err := f.ToRss()
	if err != nil {
		return nil, fmt.Errorf("render rss: %w", err)
	}
	return []byte(out), nil
}

func bodyHTML(a content.ArticleView) (string, error) {
	if a.BodyHTML != "" {
		return a.BodyHTML, nil
	}
	html, err := markdown.ToHTML(a.Body)
	if err != nil {
		return "", fmt.Errorf("render article %s: %w", a.Slug, err)
	}
	return html, nil
}

func published(a content.ArticleView) *time.Time {
	if a.PublishDate == nil {
		return nil
	}
	t := a.PublishDate.UTC()
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
