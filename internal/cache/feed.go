// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go caches generated syndication documents (JSON Feed, RSS and the
// sitemap) in Valkey. Documents are rebuilt on a miss and dropped whenever
// an article changes.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Valkey key prefix for cached documents.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a generated document stays cached.
	DefaultFeedTTL = time.Hour
)

// Document keys.
const (
	KeyJSONFeed = "json"
	KeyRSS      = "rss"
	KeySitemap  = "sitemap"
)

// FeedCache manages cached syndication documents in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a new feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// TTL returns the configured lifetime of cached documents.
func (fc *FeedCache) TTL() time.Duration {
	return fc.ttl
}

// Get retrieves a cached document. Errors are logged and treated as a miss.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores a document with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, doc []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, doc, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// Invalidate removes every cached document.
func (fc *FeedCache) Invalidate(ctx context.Context) {
	keys := []string{
		feedKeyPrefix + KeyJSONFeed,
		feedKeyPrefix + KeyRSS,
		feedKeyPrefix + KeySitemap,
	}
	if err := fc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "error", err)
		return
	}
	slog.Debug("feed cache invalidated")
}
