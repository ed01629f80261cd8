package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"folio/internal/content"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/session"
	"folio/internal/storage"
	"folio/internal/store"
)

var errBoom = errors.New("boom")

// --- content ---

type fakeContent struct {
	authors    []models.Author
	issues     []models.Issue
	quote      *models.Quote
	theme      *models.Theme
	categories []models.Category
	articles   []content.ArticleView
	err        error

	mu      sync.Mutex
	queries []content.ArticleQuery
}

func (f *fakeContent) AllAuthors() []models.Author { return f.authors }

func (f *fakeContent) AuthorBySlug(slug string) *models.Author {
	for i := range f.authors {
		if f.authors[i].Slug == slug {
			return &f.authors[i]
		}
	}
	return nil
}

func (f *fakeContent) AuthorsByRole(role string) []models.Author {
	var out []models.Author
	for _, a := range f.authors {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeContent) AllIssues() []models.Issue { return f.issues }

func (f *fakeContent) LatestIssue() *models.Issue {
	if len(f.issues) == 0 {
		return nil
	}
	return &f.issues[0]
}

func (f *fakeContent) RandomQuote() *models.Quote { return f.quote }

func (f *fakeContent) ActiveTheme() *models.Theme { return f.theme }

func (f *fakeContent) AllCategories(context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeContent) CategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			return &f.categories[i], nil
		}
	}
	return nil, nil
}

func (f *fakeContent) PublishedArticles(_ context.Context, q content.ArticleQuery) ([]content.ArticleView, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if q.Offset >= len(f.articles) {
		return nil, nil
	}
	end := len(f.articles)
	if q.Limit > 0 {
		end = min(q.Offset+q.Limit, end)
	}
	return f.articles[q.Offset:end], nil
}

func (f *fakeContent) ArticleBySlug(_ context.Context, slug string) (*content.ArticleView, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.articles {
		if f.articles[i].Slug == slug {
			v := f.articles[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (f *fakeContent) lastQuery() content.ArticleQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

// --- categories ---

type fakeCategories struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.Category
	err   error
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{items: make(map[uuid.UUID]models.Category)}
}

func (f *fakeCategories) slugTaken(slug string, except uuid.UUID) bool {
	for id, c := range f.items {
		if c.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.items[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.slugTaken(c.Slug, uuid.Nil) {
		return nil, store.ErrConflict
	}
	c.ID = uuid.New()
	f.items[c.ID] = *c
	return c, nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[c.ID]; !ok {
		return nil, nil
	}
	if f.slugTaken(c.Slug, c.ID) {
		return nil, store.ErrConflict
	}
	f.items[c.ID] = *c
	return c, nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	delete(f.items, id)
	return ok, nil
}

func (f *fakeCategories) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items), f.err
}

// --- articles ---

type fakeArticles struct {
	mu         sync.Mutex
	items      map[uuid.UUID]models.Article
	categories *fakeCategories
	filters    []store.ArticleFilter
}

func newFakeArticles(categories *fakeCategories) *fakeArticles {
	return &fakeArticles{items: make(map[uuid.UUID]models.Article), categories: categories}
}

func (f *fakeArticles) add(status models.ArticleStatus) models.Article {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := models.Article{ID: uuid.New(), Title: "Article", Slug: "article-" + uuid.NewString()[:8], Status: status}
	f.items[a.ID] = a
	return a
}

func (f *fakeArticles) check(a *models.Article) error {
	for id, other := range f.items {
		if other.Slug == a.Slug && id != a.ID {
			return store.ErrConflict
		}
	}
	if a.CategoryID != nil && f.categories != nil {
		if c, _ := f.categories.FindByID(context.Background(), *a.CategoryID); c == nil {
			return store.ErrMissingReference
		}
	}
	return nil
}

func (f *fakeArticles) List(_ context.Context, filter store.ArticleFilter) ([]models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	var out []models.Article
	for _, a := range f.items {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeArticles) FindByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.items[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeArticles) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	if err := f.check(a); err != nil {
		return nil, err
	}
	f.items[a.ID] = *a
	return a, nil
}

func (f *fakeArticles) Update(_ context.Context, a *models.Article) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[a.ID]; !ok {
		return nil, nil
	}
	if err := f.check(a); err != nil {
		return nil, err
	}
	f.items[a.ID] = *a
	return a, nil
}

func (f *fakeArticles) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items), nil
}

// --- comments ---

type fakeComments struct {
	mu    sync.Mutex
	items []models.Comment
	err   error
}

func (f *fakeComments) add(c models.Comment) models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now().Add(time.Duration(len(f.items)) * time.Second)
	f.items = append(f.items, c)
	return c
}

func (f *fakeComments) find(id uuid.UUID) int {
	for i, c := range f.items {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeComments) ListByArticle(_ context.Context, articleID uuid.UUID, status models.CommentStatus) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Comment
	for _, c := range f.items {
		if c.ArticleID == articleID && c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComments) List(_ context.Context, status models.CommentStatus, limit int) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, c := range f.items {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeComments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if c.ParentID != nil {
		i := f.find(*c.ParentID)
		if i < 0 || f.items[i].ArticleID != c.ArticleID || f.items[i].ParentID != nil {
			return nil, store.ErrParentMismatch
		}
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	f.items = append(f.items, *c)
	return c, nil
}

func (f *fakeComments) SetStatus(_ context.Context, id uuid.UUID, status models.CommentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return false, nil
	}
	f.items[i].Status = status
	return true, nil
}

func (f *fakeComments) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.find(id) < 0 {
		return false, nil
	}
	kept := f.items[:0]
	for _, c := range f.items {
		if c.ID == id || (c.ParentID != nil && *c.ParentID == id) {
			continue
		}
		kept = append(kept, c)
	}
	f.items = kept
	return true, nil
}

func (f *fakeComments) Like(_ context.Context, id uuid.UUID) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return 0, false, nil
	}
	f.items[i].Likes++
	return f.items[i].Likes, true, nil
}

func (f *fakeComments) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items), f.err
}

// --- subscribers ---

type fakeSubscribers struct {
	mu     sync.Mutex
	emails map[string]string // email -> source
}

func newFakeSubscribers() *fakeSubscribers {
	return &fakeSubscribers{emails: make(map[string]string)}
}

func (f *fakeSubscribers) Subscribe(_ context.Context, email, source string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = store.NormalizeEmail(email)
	if _, ok := f.emails[email]; ok {
		return false, nil
	}
	f.emails[email] = source
	return true, nil
}

func (f *fakeSubscribers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.emails), nil
}

// --- applications ---

type fakeApplications struct {
	mu      sync.Mutex
	items   map[uuid.UUID]models.AuthorApplication
	reviews []store.Review
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{items: make(map[uuid.UUID]models.AuthorApplication)}
}

func (f *fakeApplications) Create(_ context.Context, a *models.AuthorApplication) (*models.AuthorApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	a.Status = models.ApplicationStatusPending
	f.items[a.ID] = *a
	return a, nil
}

func (f *fakeApplications) List(_ context.Context, status models.ApplicationStatus) ([]models.AuthorApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AuthorApplication
	for _, a := range f.items {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplications) Review(_ context.Context, id uuid.UUID, r store.Review) (*models.AuthorApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, r)
	a, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	if r.Status != nil {
		a.Status = *r.Status
	}
	if r.Notes != nil {
		a.Notes = r.Notes
	}
	name := r.ReviewerName
	a.ReviewedBy = r.ReviewerID
	a.ReviewerName = &name
	f.items[id] = a
	return &a, nil
}

func (f *fakeApplications) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	delete(f.items, id)
	return ok, nil
}

// --- activity, views, cache, uploads ---

type fakeActivity struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

func (f *fakeActivity) Log(_ context.Context, e models.ActivityEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
}

func (f *fakeActivity) Recent(_ context.Context, limit int) ([]models.ActivityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeActivity) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.entries {
		out = append(out, e.Action+" "+e.EntityType)
	}
	return out
}

type fakeViews struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int64
}

func newFakeViews() *fakeViews {
	return &fakeViews{counts: make(map[uuid.UUID]int64)}
}

func (f *fakeViews) Increment(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[id]++
	return f.counts[id], nil
}

func (f *fakeViews) Count(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[id], nil
}

type fakeCache struct {
	mu          sync.Mutex
	docs        map[string][]byte
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{docs: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[key]
	return doc, ok
}

func (f *fakeCache) Set(_ context.Context, key string, doc []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[key] = doc
}

func (f *fakeCache) Invalidate(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = make(map[string][]byte)
	f.invalidated++
}

type fakeUploader struct {
	err error
}

func (f *fakeUploader) PresignUpload(_ context.Context, filename, contentType string, expires time.Duration) (*storage.Upload, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := "media/2026/10/" + filename
	return &storage.Upload{
		URL:       "https://s3.example.com/bucket/" + key + "?X-Amz-Signature=abc",
		Method:    http.MethodPut,
		Headers:   map[string]string{"Content-Type": contentType},
		Key:       key,
		PublicURL: "https://cdn.example.com/" + key,
		ExpiresAt: time.Now().Add(expires),
	}, nil
}

// --- request helpers ---

var (
	editorSession = &session.Data{UserID: uuid.NewString(), Email: "ed@folio.test", DisplayName: "Edie Tor", Role: "editor"}
	envAdmin      = &session.Data{UserID: "env-admin", Email: "admin@folio.test", Role: "admin"}
)

// do routes a single request through a chi router so URL parameters
// resolve, with sess attached as the current session.
func do(t *testing.T, method, pattern, target, body string, h http.HandlerFunc, sess *session.Data) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a JSON response body into T.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// errorMessage returns the "error" field of a JSON error body.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}
