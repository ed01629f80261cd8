// Package main is the entry point for the Folio API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/content"
	"folio/internal/database"
	"folio/internal/feed"
	"folio/internal/fixtures"
	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/router"
	"folio/internal/session"
	"folio/internal/storage"
	"folio/internal/store"
	"folio/internal/viewcount"
)

func main() {
	// Structured logger - text until the environment is known.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// JSON logs outside development.
	if !cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})))
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Startup work (connects, migrations) must finish within a minute.
	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStart()

	// Connect to PostgreSQL.
	db, err := database.Connect(startCtx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if _, err := database.Migrate(startCtx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + feed cache).
	valkeyClient, err := cache.Connect(startCtx, cache.Options{
		Host:     cfg.ValkeyHost,
		Port:     cfg.ValkeyPort,
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient)
	feedCache := cache.NewFeedCache(valkeyClient, cfg.FeedCacheTTL)

	// Load fixture documents: embedded by default, or an override directory.
	fx, err := loadFixtures(cfg.FixturesDir)
	if err != nil {
		slog.Error("failed to load fixtures", "error", err, "dir", cfg.FixturesDir)
		os.Exit(1)
	}

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	articleStore := store.NewArticleStore(db)
	commentStore := store.NewCommentStore(db)
	subscriberStore := store.NewSubscriberStore(db)
	applicationStore := store.NewApplicationStore(db)
	activityStore := store.NewActivityStore(db)

	contentService := content.New(fx, categoryStore, articleStore)

	// View counts are buffered in memory and flushed on a schedule.
	tracker := viewcount.NewTracker(store.NewViewStore(db))
	if err := tracker.Start(cfg.ViewFlushSpec); err != nil {
		slog.Error("failed to start view tracker", "error", err, "spec", cfg.ViewFlushSpec)
		os.Exit(1)
	}

	// Connect to S3-compatible object storage (optional - app works without it).
	var uploader handlers.Uploader
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		uploader = storageClient
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured - media uploads disabled")
	}

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(contentService, articleStore, commentStore, subscriberStore, applicationStore, tracker)
	adminHandlers := handlers.NewAdmin(contentService, categoryStore, articleStore, commentStore, subscriberStore,
		applicationStore, activityStore, feedCache, uploader,
		handlers.Editor{Name: cfg.EditorName, Email: cfg.EditorEmail}, cfg.EnvAdminID)
	feedHandlers := handlers.NewFeeds(contentService, feedCache, feed.Site{
		Title:       cfg.SiteTitle,
		URL:         cfg.SiteURL,
		Description: cfg.SiteTitle + " - latest articles",
	}, feedCache.TTL())

	// Public write endpoints are throttled per client IP.
	limits := router.Limiters{
		Comments:     middleware.NewRateLimiter("comments", 5, time.Minute),
		Newsletter:   middleware.NewRateLimiter("newsletter", 3, time.Minute),
		Applications: middleware.NewRateLimiter("applications", 3, time.Minute),
	}
	defer limits.Comments.Stop()
	defer limits.Newsletter.Stop()
	defer limits.Applications.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, publicHandlers, adminHandlers, feedHandlers, limits)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Persist buffered view counts before the database pool closes.
	if err := tracker.Close(ctx); err != nil {
		slog.Error("final view flush failed", "error", err, "pending", tracker.Pending())
	}

	slog.Info("server stopped gracefully")
}

// loadFixtures returns the embedded fixtures, or the documents in dir when
// it is set.
func loadFixtures(dir string) (*fixtures.Store, error) {
	if dir == "" {
		return fixtures.Default()
	}
	return fixtures.FromDir(dir)
}
