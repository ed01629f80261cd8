// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache + session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// S3-compatible object storage for media uploads
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BucketPublic string
	S3PublicURL    string

	// Public site identity, used by feeds and the sitemap
	SiteURL   string
	SiteTitle string

	// FixturesDir overrides the embedded fixture documents when set.
	FixturesDir string

	// ViewFlushSpec is the cron spec for flushing buffered view counts.
	ViewFlushSpec string

	// FeedCacheTTL is how long rendered feeds stay cached.
	FeedCacheTTL time.Duration

	// EnvAdminID is the session user id of the environment-configured
	// admin, which has no row of its own and is never stored as a reviewer.
	EnvAdminID string

	// Editorial identity used for admin comment replies
	EditorName  string
	EditorEmail string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; real environment variables take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "folio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "folio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic: envOrDefault("S3_BUCKET_PUBLIC", "folio-media"),
		S3PublicURL:    os.Getenv("S3_PUBLIC_URL"),

		SiteURL:   strings.TrimRight(envOrDefault("SITE_URL", "http://localhost:8080"), "/"),
		SiteTitle: envOrDefault("SITE_TITLE", "Folio Magazine"),

		FixturesDir:   os.Getenv("FIXTURES_DIR"),
		ViewFlushSpec: envOrDefault("VIEW_FLUSH_SPEC", "@every 15s"),

		EnvAdminID:  envOrDefault("ENV_ADMIN_ID", "env-admin"),
		EditorName:  envOrDefault("EDITOR_NAME", "Folio Editorial"),
		EditorEmail: envOrDefault("EDITOR_EMAIL", "editors@folio.local"),
	}

	ttl, err := time.ParseDuration(envOrDefault("FEED_CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("FEED_CACHE_TTL: %w", err)
	}
	cfg.FeedCacheTTL = ttl

	db, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("VALKEY_DB must be a non-negative integer")
	}
	cfg.ValkeyDB = db

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// StorageEnabled reports whether object storage credentials are configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
