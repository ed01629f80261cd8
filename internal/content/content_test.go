package content

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/fixtures"
	"folio/internal/models"
	"folio/internal/store"
)

type fakeCategories struct {
	items []models.Category
	err   error
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	return append([]models.Category(nil), f.items...), f.err
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	for _, c := range f.items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, f.err
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range f.items {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, f.err
}

type fakeArticles struct {
	items      []models.Article
	lastFilter store.ArticleFilter
}

func (f *fakeArticles) List(_ context.Context, filter store.ArticleFilter) ([]models.Article, error) {
	f.lastFilter = filter
	return f.items, nil
}

func (f *fakeArticles) FindPublishedBySlug(_ context.Context, slug string) (*models.Article, error) {
	for _, a := range f.items {
		if a.Slug == slug && a.IsPublished() {
			return &a, nil
		}
	}
	return nil, nil
}

const (
	authorsJSON = `[
		{"slug":"mara","name":"Mara","role":"editor","active":true},
		{"slug":"tomas","name":"Tomas","role":"contributor","active":true},
		{"slug":"gone","name":"Gone","role":"contributor","active":false}
	]`
	issuesJSON = `[
		{"number":1,"slug":"one","title":"One","active":true},
		{"number":3,"slug":"three","title":"Three","active":true},
		{"number":2,"slug":"two","title":"Two","active":true},
		{"number":4,"slug":"four","title":"Four","active":false}
	]`
	quotesJSON = `[
		{"text":"first","active":true},
		{"text":"hidden","active":false},
		{"text":"second","active":true}
	]`
	themesJSON = `[
		{"slug":"off","active":false},
		{"slug":"dusk","gradients":["from-a to-b"],"active":true}
	]`
)

func newTestService(t *testing.T, files fstest.MapFS, cats *fakeCategories, arts *fakeArticles) *Service {
	t.Helper()
	fx, err := fixtures.Load(files)
	require.NoError(t, err)
	if cats == nil {
		cats = &fakeCategories{}
	}
	if arts == nil {
		arts = &fakeArticles{}
	}
	return New(fx, cats, arts)
}

func fullFixtures() fstest.MapFS {
	return fstest.MapFS{
		fixtures.AuthorsFile: {Data: []byte(authorsJSON)},
		fixtures.IssuesFile:  {Data: []byte(issuesJSON)},
		fixtures.QuotesFile:  {Data: []byte(quotesJSON)},
		fixtures.ThemesFile:  {Data: []byte(themesJSON)},
	}
}

func TestAuthors(t *testing.T) {
	s := newTestService(t, fullFixtures(), nil, nil)

	all := s.AllAuthors()
	require.Len(t, all, 2)
	assert.Equal(t, "mara", all[0].Slug)

	assert.NotNil(t, s.AuthorBySlug("tomas"))
	assert.Nil(t, s.AuthorBySlug("gone"), "inactive authors are hidden")
	assert.Nil(t, s.AuthorBySlug("nobody"))

	editors := s.AuthorsByRole("editor")
	require.Len(t, editors, 1)
	assert.Equal(t, "mara", editors[0].Slug)
	assert.Empty(t, s.AuthorsByRole("photographer"))
}

func TestIssues(t *testing.T) {
	s := newTestService(t, fullFixtures(), nil, nil)

	issues := s.AllIssues()
	require.Len(t, issues, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{issues[0].Number, issues[1].Number, issues[2].Number})

	latest := s.LatestIssue()
	require.NotNil(t, latest)
	assert.Equal(t, 3, latest.Number, "inactive issue 4 is skipped")
}

func TestLatestIssueEmpty(t *testing.T) {
	s := newTestService(t, fstest.MapFS{}, nil, nil)
	assert.Nil(t, s.LatestIssue())
	assert.Empty(t, s.AllIssues())
}

func TestRandomQuote(t *testing.T) {
	s := newTestService(t, fullFixtures(), nil, nil)

	var asked int
	s.intn = func(n int) int {
		asked = n
		return n - 1
	}

	q := s.RandomQuote()
	require.NotNil(t, q)
	assert.Equal(t, 2, asked, "only active quotes are candidates")
	assert.Equal(t, "second", q.Text)
}

func TestRandomQuoteNoneActive(t *testing.T) {
	s := newTestService(t, fstest.MapFS{
		fixtures.QuotesFile: {Data: []byte(`[{"text":"x","active":false}]`)},
	}, nil, nil)
	assert.Nil(t, s.RandomQuote())

	s = newTestService(t, fstest.MapFS{}, nil, nil)
	assert.Nil(t, s.RandomQuote())
}

func TestActiveTheme(t *testing.T) {
	s := newTestService(t, fullFixtures(), nil, nil)
	theme := s.ActiveTheme()
	require.NotNil(t, theme)
	assert.Equal(t, "dusk", theme.Slug)

	assert.Nil(t, newTestService(t, fstest.MapFS{}, nil, nil).ActiveTheme())
}

func TestCategoriesDefaultColor(t *testing.T) {
	cats := &fakeCategories{items: []models.Category{
		{ID: uuid.New(), Slug: "essays", ArticleCount: 4},
		{ID: uuid.New(), Slug: "reviews", Color: "from-rose-500 to-rose-700"},
	}}
	s := newTestService(t, fullFixtures(), cats, nil)

	all, err := s.AllCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategoryColor, all[0].Color)
	assert.Equal(t, 4, all[0].ArticleCount)
	assert.Equal(t, "from-rose-500 to-rose-700", all[1].Color)

	one, err := s.CategoryBySlug(context.Background(), "essays")
	require.NoError(t, err)
	assert.Equal(t, "from-slate-500 to-slate-700", one.Color)

	none, err := s.CategoryBySlug(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestCategoriesStoreError(t *testing.T) {
	s := newTestService(t, fullFixtures(), &fakeCategories{err: errors.New("db down")}, nil)
	_, err := s.AllCategories(context.Background())
	assert.Error(t, err)
}

func TestPublishedArticles(t *testing.T) {
	catID := uuid.New()
	issue := 2
	arts := &fakeArticles{items: []models.Article{
		{ID: uuid.New(), Slug: "a", Status: models.ArticleStatusPublished, AuthorSlug: "gone", CategoryID: &catID, IssueNumber: &issue},
		{ID: uuid.New(), Slug: "b", Status: models.ArticleStatusPublished, AuthorSlug: "unknown"},
	}}
	cats := &fakeCategories{items: []models.Category{{ID: catID, Slug: "essays"}}}
	s := newTestService(t, fullFixtures(), cats, arts)

	views, err := s.PublishedArticles(context.Background(), ArticleQuery{Query: "tide", Category: "essays", Limit: 500, Offset: -3})
	require.NoError(t, err)
	require.Len(t, views, 2)

	f := arts.lastFilter
	assert.True(t, f.PublishedOnly)
	assert.Equal(t, "tide", f.Search)
	assert.Equal(t, "essays", f.CategorySlug)
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)

	require.NotNil(t, views[0].Author, "archived authors still resolve on bylines")
	assert.Equal(t, "Gone", views[0].Author.Name)
	require.NotNil(t, views[0].Category)
	assert.Equal(t, models.DefaultCategoryColor, views[0].Category.Color)
	require.NotNil(t, views[0].Issue)
	assert.Equal(t, "two", views[0].Issue.Slug)
	assert.Empty(t, views[0].BodyHTML)

	assert.Nil(t, views[1].Author)
	assert.Nil(t, views[1].Category)
}

func TestPublishedArticlesDefaultLimit(t *testing.T) {
	arts := &fakeArticles{}
	s := newTestService(t, fullFixtures(), nil, arts)

	_, err := s.PublishedArticles(context.Background(), ArticleQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, arts.lastFilter.Limit)
}

func TestArticleBySlug(t *testing.T) {
	arts := &fakeArticles{items: []models.Article{
		{ID: uuid.New(), Slug: "live", Body: "Hello **reader**", Status: models.ArticleStatusPublished, AuthorSlug: "mara"},
		{ID: uuid.New(), Slug: "draft", Body: "secret", Status: models.ArticleStatusDraft},
	}}
	s := newTestService(t, fullFixtures(), nil, arts)

	v, err := s.ArticleBySlug(context.Background(), "live")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Contains(t, v.BodyHTML, "<strong>reader</strong>")
	assert.Equal(t, "Mara", v.Author.Name)

	v, err = s.ArticleBySlug(context.Background(), "draft")
	assert.NoError(t, err)
	assert.Nil(t, v)
}
