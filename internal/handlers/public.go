// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/content"
	"folio/internal/models"
	"folio/internal/store"
)

// Public groups the unauthenticated API handlers.
type Public struct {
	content      ContentReader
	articles     ArticleFinder
	comments     CommentStore
	subscribers  SubscriberStore
	applications ApplicationStore
	views        ViewCounter
}

// NewPublic creates a new Public handler group.
func NewPublic(contentReader ContentReader, articles ArticleFinder, comments CommentStore, subscribers SubscriberStore, applications ApplicationStore, views ViewCounter) *Public {
	return &Public{
		content:      contentReader,
		articles:     articles,
		comments:     comments,
		subscribers:  subscribers,
		applications: applications,
		views:        views,
	}
}

// nonNil makes empty lists encode as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// --- Fixtures ---

// Authors lists active authors, optionally narrowed by ?role=.
func (p *Public) Authors(w http.ResponseWriter, r *http.Request) {
	if role := r.URL.Query().Get("role"); role != "" {
		writeJSON(w, http.StatusOK, nonNil(p.content.AuthorsByRole(role)))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(p.content.AllAuthors()))
}

// Author returns a single active author.
func (p *Public) Author(w http.ResponseWriter, r *http.Request) {
	author := p.content.AuthorBySlug(chi.URLParam(r, "slug"))
	if author == nil {
		writeError(w, http.StatusNotFound, "Author not found")
		return
	}
	writeJSON(w, http.StatusOK, author)
}

// Issues lists active issues, newest first.
func (p *Public) Issues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(p.content.AllIssues()))
}

// LatestIssue returns the highest-numbered active issue.
func (p *Public) LatestIssue(w http.ResponseWriter, r *http.Request) {
	issue := p.content.LatestIssue()
	if issue == nil {
		writeError(w, http.StatusNotFound, "No issues published yet")
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

// RandomQuote returns one active quote, or null when there are none.
func (p *Public) RandomQuote(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, p.content.RandomQuote())
}

// ActiveTheme returns the site's active gradient theme, or null.
func (p *Public) ActiveTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, p.content.ActiveTheme())
}

// --- Categories & articles ---

// Categories lists all categories with their published article counts.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := p.content.AllCategories(r.Context())
	if err != nil {
		serverError(w, r, "list categories failed", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(categories))
}

// Category returns a single category by slug.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	category, err := p.content.CategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, r, "find category failed", err)
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Articles lists published articles. Supported query parameters: q,
// category, author, issue, featured, limit, offset.
func (p *Public) Articles(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	articles, err := p.content.PublishedArticles(r.Context(), content.ArticleQuery{
		Query:    qs.Get("q"),
		Category: qs.Get("category"),
		Author:   qs.Get("author"),
		Issue:    intQuery(r, "issue", 0),
		Featured: boolQuery(r, "featured"),
		Limit:    intQuery(r, "limit", content.DefaultLimit),
		Offset:   intQuery(r, "offset", 0),
	})
	if err != nil {
		serverError(w, r, "list articles failed", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(articles))
}

// Article returns a published article with its rendered body.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	article, err := p.content.ArticleBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, r, "find article failed", err)
		return
	}
	if article == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// publishedArticle returns the article only if it exists and is published.
func (p *Public) publishedArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	article, err := p.articles.FindByID(ctx, id)
	if err != nil || article == nil || !article.IsPublished() {
		return nil, err
	}
	return article, nil
}

// --- Comments ---

// threadComments nests replies under their parents. Replies whose parent
// is not in the list are dropped, so a reply never outlives a hidden parent.
func threadComments(flat []models.Comment) []models.Comment {
	index := make(map[uuid.UUID]int)
	threads := make([]models.Comment, 0, len(flat))
	for _, c := range flat {
		if c.IsTopLevel() {
			index[c.ID] = len(threads)
			threads = append(threads, c)
		}
	}
	for _, c := range flat {
		if c.IsTopLevel() {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
		}
	}
	return threads
}

// ArticleComments returns approved comments for an article as threads.
func (p *Public) ArticleComments(w http.ResponseWriter, r *http.Request) {
	articleID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	flat, err := p.comments.ListByArticle(r.Context(), articleID, models.CommentStatusApproved)
	if err != nil {
		serverError(w, r, "list comments failed", err)
		return
	}
	threads := threadComments(flat)
	hideEmails(threads)
	writeJSON(w, http.StatusOK, threads)
}

type commentRequest struct {
	ArticleID   uuid.UUID  `json:"article_id" validate:"required"`
	ParentID    *uuid.UUID `json:"parent_id"`
	AuthorName  string     `json:"author_name" validate:"required,min=2,max=100"`
	AuthorEmail string     `json:"author_email" validate:"required,email,max=254"`
	Content     string     `json:"content" validate:"required,min=2,max=5000"`
}

// SubmitComment stores a reader comment for moderation.
func (p *Public) SubmitComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !bind(w, r, &req) {
		return
	}

	article, err := p.publishedArticle(r.Context(), req.ArticleID)
	if err != nil {
		serverError(w, r, "find article failed", err)
		return
	}
	if article == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}

	comment, err := p.comments.Create(r.Context(), &models.Comment{
		ArticleID:   article.ID,
		ParentID:    req.ParentID,
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorEmail: strings.TrimSpace(req.AuthorEmail),
		Content:     strings.TrimSpace(req.Content),
		Status:      models.CommentStatusPending,
	})
	switch {
	case errors.Is(err, store.ErrParentMismatch):
		writeError(w, http.StatusBadRequest, "Parent comment not found on this article")
		return
	case errors.Is(err, store.ErrMissingReference):
		writeError(w, http.StatusNotFound, "Article not found")
		return
	case err != nil:
		serverError(w, r, "create comment failed", err)
		return
	}

	comment.AuthorEmail = ""
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Comment submitted for moderation",
		"comment": comment,
	})
}

// LikeComment increments a comment's like counter.
func (p *Public) LikeComment(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	likes, found, err := p.comments.Like(r.Context(), id)
	if err != nil {
		serverError(w, r, "like comment failed", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": likes})
}

// --- Newsletter ---

type subscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type subscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Subscribe adds an email to the newsletter list. Subscribing twice is not
// an error.
func (p *Public) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") || len(email) > 254 {
		writeError(w, http.StatusBadRequest, "A valid email address is required")
		return
	}

	created, err := p.subscribers.Subscribe(r.Context(), email, strings.TrimSpace(req.Source))
	if err != nil {
		serverError(w, r, "subscribe failed", err)
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, subscribeResponse{Success: true, Message: "Already subscribed"})
		return
	}
	writeJSON(w, http.StatusOK, subscribeResponse{Success: true})
}

// --- Views ---

// RecordView counts one view of a published article.
func (p *Public) RecordView(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "articleId")
	if !ok {
		return
	}
	article, err := p.publishedArticle(r.Context(), id)
	if err != nil {
		serverError(w, r, "find article failed", err)
		return
	}
	if article == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}

	views, err := p.views.Increment(r.Context(), id)
	if err != nil {
		serverError(w, r, "record view failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"views": views})
}

// Views returns an article's current view count.
func (p *Public) Views(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "articleId")
	if !ok {
		return
	}
	views, err := p.views.Count(r.Context(), id)
	if err != nil {
		serverError(w, r, "read views failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"views": views})
}

// --- Author applications ---

type applicationRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=100"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Bio       string  `json:"bio" validate:"required,min=20,max=5000"`
	SampleURL *string `json:"sample_url" validate:"omitempty,http_url,max=500"`
}

// SubmitApplication records a prospective author's application.
func (p *Public) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if !bind(w, r, &req) {
		return
	}

	app, err := p.applications.Create(r.Context(), &models.AuthorApplication{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Bio:       strings.TrimSpace(req.Bio),
		SampleURL: req.SampleURL,
	})
	if err != nil {
		serverError(w, r, "create application failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Application received",
		"id":      app.ID,
	})
}
