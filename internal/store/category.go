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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, color, icon, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name, with published article counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.color, c.icon,
		       c.created_at, c.updated_at,
		       COUNT(a.id) AS article_count
		FROM categories c
		LEFT JOIN articles a ON a.category_id = c.id AND a.status = 'published'
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt,
			&c.ArticleCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug with its published article count.
// Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.color, c.icon,
		       c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM articles a
		        WHERE a.category_id = c.id AND a.status = 'published')
		FROM categories c WHERE c.slug = $1
	`, slug).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt,
		&c.ArticleCount,
	)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return &c, nil
}

// Create inserts a new category and returns it. The insert and the slug
// uniqueness check are one statement; a taken slug yields ErrConflict and
// leaves the table untouched.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, color, icon)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO NOTHING
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Color, c.Icon,
	)
	result, err := scanCategory(row)
	if notFound(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category and returns the stored row, or nil
// if no category has that ID. Renaming onto a taken slug yields ErrConflict.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, color = $4, icon = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Color, c.Icon, c.ID,
	)
	result, err := scanCategory(row)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("update category", err)
	}
	return result, nil
}

// Delete removes a category by ID and reports whether it existed. Articles
// in the category are kept with no category (ON DELETE SET NULL).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
