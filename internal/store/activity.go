// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// activity.go records administrative actions for the dashboard feed.
// Writes are best-effort: a failed insert is logged and never fails the
// request that triggered it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"folio/internal/models"
)

// ActivityStore handles the activity log.
type ActivityStore struct {
	db *sql.DB
}

// NewActivityStore creates a new ActivityStore.
func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Log appends an entry.
func (s *ActivityStore) Log(ctx context.Context, e models.ActivityEntry) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_log (actor, action, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, e.Actor, e.Action, e.EntityType, e.EntityID, e.Detail)
	if err != nil {
		slog.Warn("failed to log activity",
			"actor", e.Actor,
			"action", e.Action,
			"entity_type", e.EntityType,
			"error", err,
		)
		return
	}
	slog.Debug("activity logged",
		"actor", e.Actor,
		"action", e.Action,
		"entity_type", e.EntityType,
	)
}

// Recent returns the newest entries, at most limit of them.
func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, entity_type, entity_id, detail, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity log: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
