// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/query"
)

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Columns usable in article filters. Queries alias articles as "a" and the
// joined categories as "c".
var (
	colArticleTitle    = query.MustColumn("a.title")
	colArticleExcerpt  = query.MustColumn("a.excerpt")
	colArticleStatus   = query.MustColumn("a.status")
	colArticleFeatured = query.MustColumn("a.featured")
	colArticleAuthor   = query.MustColumn("a.author_slug")
	colArticleIssue    = query.MustColumn("a.issue_number")
	colCategorySlug    = query.MustColumn("c.slug")
)

const articleColumns = `a.id, a.title, a.slug, a.body, a.excerpt, a.status, a.featured,
	a.publish_date, a.image, a.author_slug, a.category_id, a.issue_number,
	a.created_at, a.updated_at`

// ArticleFilter narrows an article listing. Zero values mean "no filter".
type ArticleFilter struct {
	Search        string // case-insensitive substring of title or excerpt
	CategorySlug  string
	AuthorSlug    string
	IssueNumber   int
	FeaturedOnly  bool
	PublishedOnly bool
	Limit         int
	Offset        int
}

// Predicate converts the filter into a typed WHERE clause.
func (f ArticleFilter) Predicate() query.Predicate {
	var parts []query.Predicate
	if f.PublishedOnly {
		parts = append(parts, query.Eq(colArticleStatus, string(models.ArticleStatusPublished)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		parts = append(parts, query.Or(
			query.ILike(colArticleTitle, s),
			query.ILike(colArticleExcerpt, s),
		))
	}
	if f.CategorySlug != "" {
		parts = append(parts, query.Eq(colCategorySlug, f.CategorySlug))
	}
	if f.AuthorSlug != "" {
		parts = append(parts, query.Eq(colArticleAuthor, f.AuthorSlug))
	}
	if f.IssueNumber > 0 {
		parts = append(parts, query.Eq(colArticleIssue, f.IssueNumber))
	}
	if f.FeaturedOnly {
		parts = append(parts, query.IsTrue(colArticleFeatured))
	}
	return query.And(parts...)
}

// scanArticle scans a row into an Article struct.
func scanArticle(row scanner) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Body, &a.Excerpt, &a.Status, &a.Featured,
		&a.PublishDate, &a.Image, &a.AuthorSlug, &a.CategoryID, &a.IssueNumber,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// articleOrder sorts newest first, using creation date for drafts. The id
// breaks ties so OFFSET paging is stable.
const articleOrder = `COALESCE(a.publish_date, a.created_at) DESC, a.id DESC`

// listQuery builds the SELECT for List.
func listQuery(f ArticleFilter) (string, []any) {
	where, args := query.Where(f.Predicate(), 1)

	q := `SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		WHERE ` + where + `
		ORDER BY ` + articleOrder
	if f.Limit > 0 {
		q += ` LIMIT ` + strconv.Itoa(f.Limit)
	}
	if f.Offset > 0 {
		q += ` OFFSET ` + strconv.Itoa(f.Offset)
	}
	return q, args
}

// List returns articles matching the filter, newest first.
func (s *ArticleStore) List(ctx context.Context, f ArticleFilter) ([]models.Article, error) {
	q, args := listQuery(f)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByID retrieves an article by its UUID. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles a WHERE a.id = $1`, id)
	a, err := scanArticle(row)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindPublishedBySlug retrieves a published article by its slug. Returns
// nil if not found or not published.
func (s *ArticleStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a WHERE a.slug = $1 AND a.status = 'published'
	`, slug)
	a, err := scanArticle(row)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// Create inserts a new article and returns it with the generated ID. A taken
// slug yields ErrConflict.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	// If publishing, set the publish date.
	if a.Status == models.ArticleStatusPublished && a.PublishDate == nil {
		now := time.Now()
		a.PublishDate = &now
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO articles AS a (title, slug, body, excerpt, status, featured,
		                           publish_date, image, author_slug, category_id, issue_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (slug) DO NOTHING
		RETURNING `+articleColumns,
		a.Title, a.Slug, a.Body, a.Excerpt, a.Status, a.Featured,
		a.PublishDate, a.Image, a.AuthorSlug, a.CategoryID, a.IssueNumber,
	)
	result, err := scanArticle(row)
	if notFound(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, wrap("create article", err)
	}
	return result, nil
}

// Update modifies an existing article and returns the stored row, or nil if
// no article has that ID.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article) (*models.Article, error) {
	// If transitioning to published and no publish date set, set it now.
	if a.Status == models.ArticleStatusPublished && a.PublishDate == nil {
		now := time.Now()
		a.PublishDate = &now
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE articles AS a SET
			title = $1, slug = $2, body = $3, excerpt = $4, status = $5,
			featured = $6, publish_date = $7, image = $8, author_slug = $9,
			category_id = $10, issue_number = $11, updated_at = NOW()
		WHERE a.id = $12
		RETURNING `+articleColumns,
		a.Title, a.Slug, a.Body, a.Excerpt, a.Status, a.Featured,
		a.PublishDate, a.Image, a.AuthorSlug, a.CategoryID, a.IssueNumber, a.ID,
	)
	result, err := scanArticle(row)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("update article", err)
	}
	return result, nil
}

// Count returns the total number of articles.
func (s *ArticleStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}
