// Package content composes fixture documents and relational rows into the
// read-only view models served by the public API.
package content

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"folio/internal/fixtures"
	"folio/internal/markdown"
	"folio/internal/models"
	"folio/internal/store"
)

// Listing limits for PublishedArticles.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// CategoryReader is the subset of the category store the service reads.
type CategoryReader interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// ArticleReader is the subset of the article store the service reads.
type ArticleReader interface {
	List(ctx context.Context, f store.ArticleFilter) ([]models.Article, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
}

// Service is the data-access layer. All methods are read-only.
type Service struct {
	fixtures   *fixtures.Store
	categories CategoryReader
	articles   ArticleReader
	intn       func(n int) int
}

// New creates a Service.
func New(fx *fixtures.Store, categories CategoryReader, articles ArticleReader) *Service {
	return &Service{
		fixtures:   fx,
		categories: categories,
		articles:   articles,
		intn:       rand.IntN,
	}
}

// ArticleView is a published article joined with its author, category and
// issue. BodyHTML is only filled for single-article reads.
type ArticleView struct {
	models.Article
	BodyHTML string           `json:"body_html,omitempty"`
	Author   *models.Author   `json:"author,omitempty"`
	Category *models.Category `json:"category,omitempty"`
	Issue    *models.Issue    `json:"issue,omitempty"`
}

// ArticleQuery narrows PublishedArticles.
type ArticleQuery struct {
	Query    string
	Category string
	Author   string
	Issue    int
	Featured bool
	Limit    int
	Offset   int
}

// AllAuthors returns active authors in fixture order.
func (s *Service) AllAuthors() []models.Author {
	return slices.DeleteFunc(s.fixtures.Authors(), func(a models.Author) bool { return !a.Active })
}

// AuthorBySlug returns an active author, or nil.
func (s *Service) AuthorBySlug(slug string) *models.Author {
	for _, a := range s.AllAuthors() {
		if a.Slug == slug {
			return &a
		}
	}
	return nil
}

// AuthorsByRole returns active authors with the given role.
func (s *Service) AuthorsByRole(role string) []models.Author {
	return slices.DeleteFunc(s.AllAuthors(), func(a models.Author) bool { return a.Role != role })
}

// AllIssues returns active issues, newest number first.
func (s *Service) AllIssues() []models.Issue {
	issues := slices.DeleteFunc(s.fixtures.Issues(), func(i models.Issue) bool { return !i.Active })
	slices.SortFunc(issues, func(a, b models.Issue) int { return cmp.Compare(b.Number, a.Number) })
	return issues
}

// LatestIssue returns the active issue with the highest number, or nil.
func (s *Service) LatestIssue() *models.Issue {
	issues := s.AllIssues()
	if len(issues) == 0 {
		return nil
	}
	return &issues[0]
}

// RandomQuote picks uniformly among active quotes. Returns nil when there
// are none.
func (s *Service) RandomQuote() *models.Quote {
	quotes := slices.DeleteFunc(s.fixtures.Quotes(), func(q models.Quote) bool { return !q.Active })
	if len(quotes) == 0 {
		return nil
	}
	return &quotes[s.intn(len(quotes))]
}

// ActiveTheme returns the first active theme, or nil.
func (s *Service) ActiveTheme() *models.Theme {
	for _, t := range s.fixtures.Themes() {
		if t.Active {
			return &t
		}
	}
	return nil
}

// AllCategories returns every category with its published article count.
func (s *Service) AllCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		cats[i].Color = cats[i].DisplayColor()
	}
	return cats, nil
}

// CategoryBySlug returns a category, or nil.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	cat, err := s.categories.FindBySlug(ctx, slug)
	if err != nil || cat == nil {
		return nil, err
	}
	cat.Color = cat.DisplayColor()
	return cat, nil
}

// PublishedArticles lists published articles matching q, newest first.
func (s *Service) PublishedArticles(ctx context.Context, q ArticleQuery) ([]ArticleView, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	articles, err := s.articles.List(ctx, store.ArticleFilter{
		Search:        q.Query,
		CategorySlug:  q.Category,
		AuthorSlug:    q.Author,
		IssueNumber:   q.Issue,
		FeaturedOnly:  q.Featured,
		PublishedOnly: true,
		Limit:         limit,
		Offset:        max(q.Offset, 0),
	})
	if err != nil {
		return nil, err
	}

	cats, err := s.AllCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}

	authors, issues := s.authorIndex(), s.issueIndex()
	views := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		v := ArticleView{Article: a, Author: authors[a.AuthorSlug]}
		if a.CategoryID != nil {
			v.Category = byID[*a.CategoryID]
		}
		if a.IssueNumber != nil {
			v.Issue = issues[*a.IssueNumber]
		}
		views = append(views, v)
	}
	return views, nil
}

// ArticleBySlug returns a published article with its body rendered to HTML,
// or nil.
func (s *Service) ArticleBySlug(ctx context.Context, slug string) (*ArticleView, error) {
	a, err := s.articles.FindPublishedBySlug(ctx, slug)
	if err != nil || a == nil {
		return nil, err
	}

	html, err := markdown.ToHTML(a.Body)
	if err != nil {
		return nil, fmt.Errorf("render article %s: %w", a.Slug, err)
	}

	v := &ArticleView{
		Article:  *a,
		BodyHTML: html,
		Author:   s.authorIndex()[a.AuthorSlug],
	}
	if a.CategoryID != nil {
		cat, err := s.categories.FindByID(ctx, *a.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat != nil {
			cat.Color = cat.DisplayColor()
		}
		v.Category = cat
	}
	if a.IssueNumber != nil {
		v.Issue = s.issueIndex()[*a.IssueNumber]
	}
	return v, nil
}

// authorIndex maps every author, active or not, by slug so that archived
// bylines still resolve.
func (s *Service) authorIndex() map[string]*models.Author {
	authors := s.fixtures.Authors()
	idx := make(map[string]*models.Author, len(authors))
	for i := range authors {
		idx[authors[i].Slug] = &authors[i]
	}
	return idx
}

func (s *Service) issueIndex() map[int]*models.Issue {
	issues := s.fixtures.Issues()
	idx := make(map[int]*models.Issue, len(issues))
	for i := range issues {
		idx[issues[i].Number] = &issues[i]
	}
	return idx
}
