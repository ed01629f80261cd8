// Package store provides database access methods for all Folio entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Finders return (nil, nil) when a row does not exist.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"folio/internal/models"
)

var (
	// ErrConflict is returned when an insert or update would violate a
	// uniqueness constraint (duplicate slug or email).
	ErrConflict = errors.New("already exists")

	// ErrParentMismatch is returned when a reply names a parent comment that
	// does not exist on the same article.
	ErrParentMismatch = errors.New("parent comment not found on article")

	// ErrMissingReference is returned when a row points at a parent row
	// that does not exist, such as a comment on an unknown article.
	ErrMissingReference = errors.New("referenced row does not exist")
)

// PostgreSQL error codes mapped to sentinel errors.
const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// pgCode returns the SQLSTATE of a PostgreSQL error, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate maps constraint violations onto sentinel errors and returns
// nil for anything else.
func translate(err error) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		return ErrConflict
	case pgForeignKeyViolation:
		return ErrMissingReference
	case pgCheckViolation, pgInvalidText:
		return models.ErrInvalidStatus
	}
	return nil
}

// wrap returns the sentinel for a constraint violation, or err wrapped
// with the operation name.
func wrap(op string, err error) error {
	if sentinel := translate(err); sentinel != nil {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notFound reports whether err means "no row".
func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
