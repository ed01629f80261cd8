// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the publishing state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Valid reports whether s is a known article status.
func (s ArticleStatus) Valid() bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished
}

// Article is a magazine article. Authors and issues live in the fixture
// store, so the article references them by slug and issue number rather
// than by foreign key.
type Article struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Body        string        `json:"body"`
	Excerpt     *string       `json:"excerpt,omitempty"`
	Status      ArticleStatus `json:"status"`
	Featured    bool          `json:"featured"`
	PublishDate *time.Time    `json:"publish_date,omitempty"`
	Image       *string       `json:"image,omitempty"`
	AuthorSlug  string        `json:"author_slug"`
	CategoryID  *uuid.UUID    `json:"category_id,omitempty"`
	IssueNumber *int          `json:"issue_number,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPublished returns true if the article is in published status.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}
