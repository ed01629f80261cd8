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

// CommentStore handles comment threads, moderation and likes.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, article_id, parent_id, author_name, author_email, content,
	status, is_admin, likes, created_at`

// scanComment scans a row into a Comment struct.
func scanComment(row scanner) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(
		&c.ID, &c.ArticleID, &c.ParentID, &c.AuthorName, &c.AuthorEmail, &c.Content,
		&c.Status, &c.IsAdmin, &c.Likes, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CommentStore) list(ctx context.Context, op, q string, args ...any) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListByArticle returns an article's comments with the given status in
// chronological order, replies included.
func (s *CommentStore) ListByArticle(ctx context.Context, articleID uuid.UUID, status models.CommentStatus) ([]models.Comment, error) {
	return s.list(ctx, "list comments by article", `
		SELECT `+commentColumns+`
		FROM comments
		WHERE article_id = $1 AND status = $2
		ORDER BY created_at ASC
	`, articleID, status)
}

// List returns the most recent comments across all articles for the
// moderation queue. An empty status returns every status.
func (s *CommentStore) List(ctx context.Context, status models.CommentStatus, limit int) ([]models.Comment, error) {
	return s.list(ctx, "list comments", `
		SELECT `+commentColumns+`
		FROM comments
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, string(status), limit)
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment. For replies the parent must be a top-level
// comment on the same article; the check and the insert are one statement,
// and a mismatch yields ErrParentMismatch. An unknown article yields
// ErrMissingReference.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if c.ParentID == nil {
		row := s.db.QueryRowContext(ctx, `
			INSERT INTO comments (article_id, author_name, author_email, content, status, is_admin)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+commentColumns,
			c.ArticleID, c.AuthorName, c.AuthorEmail, c.Content, c.Status, c.IsAdmin,
		)
		result, err := scanComment(row)
		if err != nil {
			return nil, wrap("create comment", err)
		}
		return result, nil
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (article_id, parent_id, author_name, author_email, content, status, is_admin)
		SELECT p.article_id, p.id, $3, $4, $5, $6, $7
		FROM comments p
		WHERE p.id = $2 AND p.article_id = $1 AND p.parent_id IS NULL
		RETURNING `+commentColumns,
		c.ArticleID, *c.ParentID, c.AuthorName, c.AuthorEmail, c.Content, c.Status, c.IsAdmin,
	)
	result, err := scanComment(row)
	if notFound(err) {
		return nil, ErrParentMismatch
	}
	if err != nil {
		return nil, wrap("create reply", err)
	}
	return result, nil
}

// SetStatus changes a comment's moderation status and reports whether the
// comment existed.
func (s *CommentStore) SetStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE comments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return false, wrap("set comment status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set comment status: %w", err)
	}
	return n > 0, nil
}

// Delete removes a comment and reports whether it existed. Replies are
// removed by the ON DELETE CASCADE on parent_id.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return n > 0, nil
}

// Like increments a comment's like counter in a single atomic UPDATE and
// returns the new value. found is false if the comment does not exist.
// There is no per-client deduplication.
func (s *CommentStore) Like(ctx context.Context, id uuid.UUID) (likes int, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		UPDATE comments SET likes = likes + 1 WHERE id = $1 RETURNING likes
	`, id).Scan(&likes)
	if notFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("like comment: %w", err)
	}
	return likes, true, nil
}

// Count returns the total number of comments.
func (s *CommentStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}
