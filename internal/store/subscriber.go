// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"folio/internal/models"
)

// SubscriberStore handles newsletter subscriptions.
type SubscriberStore struct {
	db *sql.DB
}

// NewSubscriberStore creates a new SubscriberStore.
func NewSubscriberStore(db *sql.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// NormalizeEmail trims and lower-cases an address so that uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe inserts the address if it is not already present. created is
// false when the address was already subscribed; that is not an error.
func (s *SubscriberStore) Subscribe(ctx context.Context, email, source string) (created bool, err error) {
	if source == "" {
		source = "website"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers (email, source)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`, NormalizeEmail(email), source)
	if err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	return n > 0, nil
}

// FindByEmail retrieves a subscriber. Returns nil if not found.
func (s *SubscriberStore) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, source, status, created_at
		FROM subscribers WHERE email = $1
	`, NormalizeEmail(email)).Scan(&sub.ID, &sub.Email, &sub.Source, &sub.Status, &sub.CreatedAt)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return &sub, nil
}

// Count returns the total number of subscribers.
func (s *SubscriberStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}
