package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"folio/internal/content"
	"folio/internal/models"
	"folio/internal/storage"
	"folio/internal/store"
)

// ContentReader is the data-access layer used by public endpoints.
type ContentReader interface {
	AllAuthors() []models.Author
	AuthorBySlug(slug string) *models.Author
	AuthorsByRole(role string) []models.Author
	AllIssues() []models.Issue
	LatestIssue() *models.Issue
	RandomQuote() *models.Quote
	ActiveTheme() *models.Theme
	AllCategories(ctx context.Context) ([]models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	PublishedArticles(ctx context.Context, q content.ArticleQuery) ([]content.ArticleView, error)
	ArticleBySlug(ctx context.Context, slug string) (*content.ArticleView, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
}

// ArticleFinder looks up a single article regardless of status.
type ArticleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
}

// ArticleStore persists articles.
type ArticleStore interface {
	ArticleFinder
	List(ctx context.Context, f store.ArticleFilter) ([]models.Article, error)
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	Update(ctx context.Context, a *models.Article) (*models.Article, error)
	Count(ctx context.Context) (int, error)
}

// CommentStore persists comments.
type CommentStore interface {
	ListByArticle(ctx context.Context, articleID uuid.UUID, status models.CommentStatus) ([]models.Comment, error)
	List(ctx context.Context, status models.CommentStatus, limit int) ([]models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Like(ctx context.Context, id uuid.UUID) (int, bool, error)
	Count(ctx context.Context) (int, error)
}

// SubscriberStore persists newsletter subscriptions.
type SubscriberStore interface {
	Subscribe(ctx context.Context, email, source string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// ApplicationStore persists author applications.
type ApplicationStore interface {
	Create(ctx context.Context, a *models.AuthorApplication) (*models.AuthorApplication, error)
	List(ctx context.Context, status models.ApplicationStatus) ([]models.AuthorApplication, error)
	Review(ctx context.Context, id uuid.UUID, r store.Review) (*models.AuthorApplication, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ActivityLog records and lists admin activity.
type ActivityLog interface {
	Log(ctx context.Context, e models.ActivityEntry)
	Recent(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}

// ViewCounter tracks article views.
type ViewCounter interface {
	Increment(ctx context.Context, articleID uuid.UUID) (int64, error)
	Count(ctx context.Context, articleID uuid.UUID) (int64, error)
}

// DocumentCache stores generated feed documents.
type DocumentCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, doc []byte)
	Invalidate(ctx context.Context)
}

// Uploader issues presigned upload grants.
type Uploader interface {
	PresignUpload(ctx context.Context, filename, contentType string, expires time.Duration) (*storage.Upload, error)
}
