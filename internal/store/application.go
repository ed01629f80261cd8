// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/models"
)

// ApplicationStore handles author applications and their review.
type ApplicationStore struct {
	db *sql.DB
}

// NewApplicationStore creates a new ApplicationStore.
func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

const applicationColumns = `id, name, email, bio, sample_url, status, notes,
	reviewed_by, reviewer_name, reviewed_at, created_at`

func scanApplication(row scanner) (*models.AuthorApplication, error) {
	var a models.AuthorApplication
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Bio, &a.SampleURL, &a.Status, &a.Notes,
		&a.ReviewedBy, &a.ReviewerName, &a.ReviewedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Review describes a reviewer's decision. Nil Status or Notes leave the
// stored value unchanged. ReviewerID is nil for the environment admin.
type Review struct {
	Status       *models.ApplicationStatus
	Notes        *string
	ReviewerID   *uuid.UUID
	ReviewerName string
}

// Create stores a new application in the pending state.
func (s *ApplicationStore) Create(ctx context.Context, a *models.AuthorApplication) (*models.AuthorApplication, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO author_applications (name, email, bio, sample_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+applicationColumns,
		a.Name, NormalizeEmail(a.Email), a.Bio, a.SampleURL,
	)
	result, err := scanApplication(row)
	if err != nil {
		return nil, wrap("create application", err)
	}
	return result, nil
}

// List returns applications newest first. An empty status returns all.
func (s *ApplicationStore) List(ctx context.Context, status models.ApplicationStatus) ([]models.AuthorApplication, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM author_applications
		WHERE $1 = '' OR status::text = $1
		ORDER BY created_at DESC
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var items []models.AuthorApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByID retrieves an application. Returns nil if not found.
func (s *ApplicationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.AuthorApplication, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM author_applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	return a, nil
}

// Review applies a decision and stamps the reviewer and review time.
// Returns nil if no application has that ID. A status the database enum
// does not accept yields models.ErrInvalidStatus.
func (s *ApplicationStore) Review(ctx context.Context, id uuid.UUID, r Review) (*models.AuthorApplication, error) {
	var status *string
	if r.Status != nil {
		v := string(*r.Status)
		status = &v
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE author_applications SET
			status        = COALESCE($1::application_status, status),
			notes         = COALESCE($2, notes),
			reviewed_by   = $3,
			reviewer_name = $4,
			reviewed_at   = NOW()
		WHERE id = $5
		RETURNING `+applicationColumns,
		status, r.Notes, r.ReviewerID, r.ReviewerName, id,
	)
	a, err := scanApplication(row)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("review application", err)
	}
	return a, nil
}

// Delete removes an application and reports whether it existed.
func (s *ApplicationStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM author_applications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete application: %w", err)
	}
	return n > 0, nil
}
