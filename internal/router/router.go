// Package router sets up all HTTP routes and middleware chains for the
// Folio API. It organizes routes into public, feed and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"folio/internal/handlers"
	"folio/internal/middleware"
)

// Limiters throttle the public write endpoints per client IP. Each endpoint
// group has its own budget.
type Limiters struct {
	Comments     *middleware.RateLimiter
	Newsletter   *middleware.RateLimiter
	Applications *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions middleware.SessionReader, public *handlers.Public, admin *handlers.Admin, feeds *handlers.Feeds, limits Limiters) chi.Router {
	r := chi.NewRouter()

	// Global middleware - applied to every request. Logger runs after
	// LoadSession so admin lines carry the acting user.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))
	r.Use(middleware.Logger)

	// Health check - no auth.
	r.Get("/health", healthHandler)

	// Syndication
	r.Get("/feed.json", feeds.JSONFeed)
	r.Get("/rss.xml", feeds.RSS)
	r.Get("/sitemap.xml", feeds.Sitemap)

	r.Route("/api", func(r chi.Router) {
		// Fixture-backed content
		r.Get("/authors", public.Authors)
		r.Get("/authors/{slug}", public.Author)
		r.Get("/issues", public.Issues)
		r.Get("/issues/latest", public.LatestIssue)
		r.Get("/quotes/random", public.RandomQuote)
		r.Get("/theme", public.ActiveTheme)

		// Categories and articles
		r.Get("/categories", public.Categories)
		r.Get("/categories/{slug}", public.Category)
		r.Get("/articles", public.Articles)
		r.Get("/articles/{slug}", public.Article)
		r.Get("/articles/{id}/comments", public.ArticleComments)

		// Reader interaction
		r.With(limits.Comments.Middleware).Post("/comments", public.SubmitComment)
		r.Post("/comments/{id}/like", public.LikeComment)
		r.With(limits.Newsletter.Middleware).Post("/newsletter/subscribe", public.Subscribe)
		r.Post("/views/{articleId}", public.RecordView)
		r.Get("/views/{articleId}", public.Views)
		r.With(limits.Applications.Middleware).Post("/author-applications", public.SubmitApplication)

		// Admin API - requires a session issued by the identity provider.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			// Any signed-in role may read the dashboard.
			r.Get("/stats", admin.Stats)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor)

				r.Route("/categories", func(r chi.Router) {
					r.Post("/", admin.CategoryCreate)
					r.Put("/{id}", admin.CategoryUpdate)
					r.Delete("/{id}", admin.CategoryDelete)
				})

				r.Route("/articles", func(r chi.Router) {
					r.Get("/", admin.ArticlesList)
					r.Post("/", admin.ArticleCreate)
					r.Put("/{id}", admin.ArticleUpdate)
				})

				r.Route("/comments", func(r chi.Router) {
					r.Get("/", admin.CommentsList)
					r.Post("/reply", admin.CommentReply)
					r.Patch("/{id}", admin.CommentModerate)
					r.Delete("/{id}", admin.CommentDelete)
				})

				r.Route("/author-applications", func(r chi.Router) {
					r.Get("/", admin.ApplicationsList)
					r.Patch("/{id}", admin.ApplicationReview)
					r.With(middleware.RequireAdmin).Delete("/{id}", admin.ApplicationDelete)
				})

				r.Post("/uploads", admin.UploadCreate)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
