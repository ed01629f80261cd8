package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ViewStore holds the durable per-article view counters.
type ViewStore struct {
	db *sql.DB
}

// NewViewStore creates a new ViewStore.
func NewViewStore(db *sql.DB) *ViewStore {
	return &ViewStore{db: db}
}

// Add increments an article's counter by delta with a single upsert and
// returns the new total.
func (s *ViewStore) Add(ctx context.Context, articleID uuid.UUID, delta int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO article_views (article_id, count)
		VALUES ($1, $2)
		ON CONFLICT (article_id) DO UPDATE
		SET count = article_views.count + EXCLUDED.count, updated_at = NOW()
		RETURNING count
	`, articleID, delta).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("add views: %w", err)
	}
	return count, nil
}

// Get returns an article's stored counter, zero if it has none.
func (s *ViewStore) Get(ctx context.Context, articleID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT count FROM article_views WHERE article_id = $1`, articleID).Scan(&count)
	if notFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get views: %w", err)
	}
	return count, nil
}
