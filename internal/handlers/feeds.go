package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"folio/internal/cache"
	"folio/internal/content"
	"folio/internal/feed"
)

// feedSize is the number of latest articles syndicated in JSON Feed and RSS.
const feedSize = 50

// Feeds serves the syndication documents, cached in Valkey.
type Feeds struct {
	content ContentReader
	cache   DocumentCache // nil disables caching
	site    feed.Site
	maxAge  time.Duration
	now     func() time.Time
}

// NewFeeds creates a Feeds handler. maxAge sets the Cache-Control max-age
// sent to clients and proxies.
func NewFeeds(contentReader ContentReader, docs DocumentCache, site feed.Site, maxAge time.Duration) *Feeds {
	if maxAge <= 0 {
		maxAge = cache.DefaultFeedTTL
	}
	return &Feeds{
		content: contentReader,
		cache:   docs,
		site:    site,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// JSONFeed serves /feed.json.
func (f *Feeds) JSONFeed(w http.ResponseWriter, r *http.Request) {
	f.serve(w, r, cache.KeyJSONFeed, "application/feed+json; charset=utf-8", func(ctx context.Context) ([]byte, error) {
		articles, err := f.content.PublishedArticles(ctx, content.ArticleQuery{Limit: feedSize})
		if err != nil {
			return nil, err
		}
		return feed.JSONFeed(f.site, articles)
	})
}

// RSS serves /rss.xml.
func (f *Feeds) RSS(w http.ResponseWriter, r *http.Request) {
	f.serve(w, r, cache.KeyRSS, "application/rss+xml; charset=utf-8", func(ctx context.Context) ([]byte, error) {
		articles, err := f.content.PublishedArticles(ctx, content.ArticleQuery{Limit: feedSize})
		if err != nil {
			return nil, err
		}
		return feed.RSS(f.site, articles, f.now())
	})
}

// Sitemap serves /sitemap.xml with every published article.
func (f *Feeds) Sitemap(w http.ResponseWriter, r *http.Request) {
	f.serve(w, r, cache.KeySitemap, "application/xml; charset=utf-8", func(ctx context.Context) ([]byte, error) {
		var articles []content.ArticleView
		for offset := 0; ; offset += content.MaxLimit {
			page, err := f.content.PublishedArticles(ctx, content.ArticleQuery{
				Limit:  content.MaxLimit,
				Offset: offset,
			})
			if err != nil {
				return nil, err
			}
			articles = append(articles, page...)
			if len(page) < content.MaxLimit {
				break
			}
		}
		return feed.Sitemap(f.site, articles, f.content.AllAuthors(), f.content.AllIssues())
	})
}

// serve writes the cached document for key, building and caching it on a
// miss.
func (f *Feeds) serve(w http.ResponseWriter, r *http.Request, key, contentType string, build func(context.Context) ([]byte, error)) {
	ctx := r.Context()

	var doc []byte
	hit := false
	if f.cache != nil {
		doc, hit = f.cache.Get(ctx, key)
	}
	if !hit {
		var err error
		doc, err = build(ctx)
		if err != nil {
			serverError(w, r, "build "+key+" failed", err)
			return
		}
		if f.cache != nil {
			f.cache.Set(ctx, key, doc)
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(f.maxAge.Seconds())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		slog.Debug("write feed failed", "key", key, "error", err)
	}
}
