// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/slug"
	"folio/internal/store"
)

// Editor is the identity attached to replies posted from the admin API.
type Editor struct {
	Name  string
	Email string
}

// Admin groups the editorial API handlers and their dependencies.
type Admin struct {
	content      ContentReader
	categories   CategoryStore
	articles     ArticleStore
	comments     CommentStore
	subscribers  SubscriberStore
	applications ApplicationStore
	activity     ActivityLog
	feedCache    DocumentCache
	uploads      Uploader
	editor       Editor
	envAdminID   string
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// feedCache and uploads may be nil when Valkey feeds caching or S3 is not
// configured.
func NewAdmin(contentReader ContentReader, categories CategoryStore, articles ArticleStore, comments CommentStore, subscribers SubscriberStore, applications ApplicationStore, activity ActivityLog, feedCache DocumentCache, uploads Uploader, editor Editor, envAdminID string) *Admin {
	return &Admin{
		content:      contentReader,
		categories:   categories,
		articles:     articles,
		comments:     comments,
		subscribers:  subscribers,
		applications: applications,
		activity:     activity,
		feedCache:    feedCache,
		uploads:      uploads,
		editor:       editor,
		envAdminID:   envAdminID,
	}
}

// logActivity appends an entry to the activity log. Failures are logged by
// the store and never fail the request.
func (a *Admin) logActivity(r *http.Request, action, entityType string, entityID *uuid.UUID, detail string) {
	a.activity.Log(r.Context(), models.ActivityEntry{
		Actor:      actorName(r),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	})
}

// invalidateFeeds drops cached feeds after an article or category changes.
func (a *Admin) invalidateFeeds(r *http.Request) {
	if a.feedCache != nil {
		a.feedCache.Invalidate(r.Context())
	}
}

// --- Categories ---

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"required,min=2,max=100,slug"`
	Description string `json:"description" validate:"max=1000"`
	Color       string `json:"color" validate:"max=100"`
	Icon        string `json:"icon" validate:"max=50"`
}

func (req categoryRequest) category() *models.Category {
	return &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        req.Slug,
		Description: strings.TrimSpace(req.Description),
		Color:       strings.TrimSpace(req.Color),
		Icon:        strings.TrimSpace(req.Icon),
	}
}

// CategoryCreate adds a category. A taken slug yields 409 and nothing is
// written.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !bind(w, r, &req) {
		return
	}

	created, err := a.categories.Create(r.Context(), req.category())
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "A category with this slug already exists")
		return
	}
	if err != nil {
		serverError(w, r, "create category failed", err)
		return
	}

	a.logActivity(r, "create", "category", &created.ID, created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate replaces a category's fields.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if !bind(w, r, &req) {
		return
	}

	c := req.category()
	c.ID = id
	updated, err := a.categories.Update(r.Context(), c)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "A category with this slug already exists")
		return
	}
	if err != nil {
		serverError(w, r, "update category failed", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	a.logActivity(r, "update", "category", &updated.ID, updated.Name)
	a.invalidateFeeds(r)
	writeJSON(w, http.StatusOK, updated)
}

// CategoryDelete removes a category. Its articles become uncategorized.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	found, err := a.categories.Delete(r.Context(), id)
	if err != nil {
		serverError(w, r, "delete category failed", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	a.logActivity(r, "delete", "category", &id, "")
	a.invalidateFeeds(r)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Articles ---

type articleRequest struct {
	Title       string     `json:"title" validate:"required,min=2,max=200"`
	Slug        string     `json:"slug" validate:"omitempty,max=200,slug"`
	Body        string     `json:"body" validate:"max=200000"`
	Excerpt     *string    `json:"excerpt" validate:"omitempty,max=500"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published"`
	Featured    bool       `json:"featured"`
	PublishDate *time.Time `json:"publish_date"`
	Image       *string    `json:"image" validate:"omitempty,url,max=500"`
	AuthorSlug  string     `json:"author_slug" validate:"required"`
	CategoryID  *uuid.UUID `json:"category_id"`
	IssueNumber *int       `json:"issue_number" validate:"omitempty,gt=0"`
}

// article converts the request into a model, filling the slug from the
// title and defaulting to draft. It writes a 400 and returns nil when the
// request references an unknown author or issue.
func (a *Admin) article(w http.ResponseWriter, req articleRequest) *models.Article {
	s := req.Slug
	if s == "" {
		s = slug.Generate(req.Title)
	}
	if s == "" {
		writeError(w, http.StatusBadRequest, "slug could not be derived from the title")
		return nil
	}
	if a.content.AuthorBySlug(req.AuthorSlug) == nil {
		writeError(w, http.StatusBadRequest, "Unknown author")
		return nil
	}
	if req.IssueNumber != nil && !a.issueExists(*req.IssueNumber) {
		writeError(w, http.StatusBadRequest, "Unknown issue")
		return nil
	}

	status := models.ArticleStatus(req.Status)
	if status == "" {
		status = models.ArticleStatusDraft
	}
	return &models.Article{
		Title:       strings.TrimSpace(req.Title),
		Slug:        s,
		Body:        req.Body,
		Excerpt:     req.Excerpt,
		Status:      status,
		Featured:    req.Featured,
		PublishDate: req.PublishDate,
		Image:       req.Image,
		AuthorSlug:  req.AuthorSlug,
		CategoryID:  req.CategoryID,
		IssueNumber: req.IssueNumber,
	}
}

func (a *Admin) issueExists(number int) bool {
	for _, issue := range a.content.AllIssues() {
		if issue.Number == number {
			return true
		}
	}
	return false
}

// ArticlesList lists articles of every status. Supports ?q=, ?limit= and
// ?offset=.
func (a *Admin) ArticlesList(w http.ResponseWriter, r *http.Request) {
	articles, err := a.articles.List(r.Context(), store.ArticleFilter{
		Search: r.URL.Query().Get("q"),
		Limit:  min(intQuery(r, "limit", 50), 200),
		Offset: intQuery(r, "offset", 0),
	})
	if err != nil {
		serverError(w, r, "list articles failed", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(articles))
}

// ArticleCreate adds an article.
func (a *Admin) ArticleCreate(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if !bind(w, r, &req) {
		return
	}
	article := a.article(w, req)
	if article == nil {
		return
	}

	created, err := a.articles.Create(r.Context(), article)
	if !a.articleWriteOK(w, r, err, "create article failed") {
		return
	}

	a.logActivity(r, "create", "article", &created.ID, created.Title)
	a.invalidateFeeds(r)
	writeJSON(w, http.StatusCreated, created)
}

// ArticleUpdate replaces an article's fields. A publish date already set is
// kept when the request omits one.
func (a *Admin) ArticleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req articleRequest
	if !bind(w, r, &req) {
		return
	}

	existing, err := a.articles.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find article failed", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}

	article := a.article(w, req)
	if article == nil {
		return
	}
	article.ID = id
	if article.PublishDate == nil {
		article.PublishDate = existing.PublishDate
	}

	updated, err := a.articles.Update(r.Context(), article)
	if !a.articleWriteOK(w, r, err, "update article failed") {
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}

	a.logActivity(r, "update", "article", &updated.ID, updated.Title)
	a.invalidateFeeds(r)
	writeJSON(w, http.StatusOK, updated)
}

// articleWriteOK translates article store errors into responses.
func (a *Admin) articleWriteOK(w http.ResponseWriter, r *http.Request, err error, msg string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "An article with this slug already exists")
	case errors.Is(err, store.ErrMissingReference):
		writeError(w, http.StatusBadRequest, "Unknown category")
	case errors.Is(err, models.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "Invalid status")
	default:
		serverError(w, r, msg, err)
	}
	return false
}

// --- Comments ---

// CommentsList returns the moderation queue, newest first. ?status=
// narrows it to one status.
func (a *Admin) CommentsList(w http.ResponseWriter, r *http.Request) {
	var status models.CommentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		var err error
		if status, err = models.ParseCommentStatus(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid status")
			return
		}
	}

	comments, err := a.comments.List(r.Context(), status, min(intQuery(r, "limit", 100), 500))
	if err != nil {
		serverError(w, r, "list comments failed", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(comments))
}

type commentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved spam"`
}

// CommentModerate sets a comment's status.
func (a *Admin) CommentModerate(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req commentStatusRequest
	if !bind(w, r, &req) {
		return
	}

	found, err := a.comments.SetStatus(r.Context(), id, models.CommentStatus(req.Status))
	if err != nil {
		serverError(w, r, "moderate comment failed", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	a.logActivity(r, "moderate", "comment", &id, req.Status)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": req.Status})
}

// CommentDelete removes a comment together with its replies.
func (a *Admin) CommentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	found, err := a.comments.Delete(r.Context(), id)
	if err != nil {
		serverError(w, r, "delete comment failed", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	a.logActivity(r, "delete", "comment", &id, "")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type replyRequest struct {
	ArticleID *uuid.UUID `json:"article_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Content   string     `json:"content" validate:"max=5000"`
}

// CommentReply posts an approved reply under the editorial identity.
func (a *Admin) CommentReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	content := strings.TrimSpace(req.Content)
	if req.ArticleID == nil || req.ParentID == nil || content == "" {
		writeError(w, http.StatusBadRequest, "article_id, parent_id and content are required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	reply, err := a.comments.Create(r.Context(), &models.Comment{
		ArticleID:   *req.ArticleID,
		ParentID:    req.ParentID,
		AuthorName:  a.editor.Name,
		AuthorEmail: a.editor.Email,
		Content:     content,
		Status:      models.CommentStatusApproved,
		IsAdmin:     true,
	})
	switch {
	case errors.Is(err, store.ErrParentMismatch):
		writeError(w, http.StatusBadRequest, "Parent comment not found on this article")
		return
	case errors.Is(err, store.ErrMissingReference):
		writeError(w, http.StatusNotFound, "Article not found")
		return
	case err != nil:
		serverError(w, r, "create reply failed", err)
		return
	}

	a.logActivity(r, "reply", "comment", &reply.ID, "")
	writeJSON(w, http.StatusCreated, reply)
}
