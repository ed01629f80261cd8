// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of an author application. The same
// values back the application_status enum type in PostgreSQL; the two are
// kept in step by a migration test.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every application status in declaration order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
	}
}

// ParseApplicationStatus converts a raw string into an ApplicationStatus.
// Anything outside the enumeration, including near-synonyms such as
// "accepted", is rejected with ErrInvalidStatus.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	for _, st := range ApplicationStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// IsFinal reports whether the application has been decided.
func (s ApplicationStatus) IsFinal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// AuthorApplication is a request from a prospective contributor.
type AuthorApplication struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Bio          string            `json:"bio"`
	SampleURL    *string           `json:"sample_url,omitempty"`
	Status       ApplicationStatus `json:"status"`
	Notes        *string           `json:"notes,omitempty"`
	ReviewedBy   *uuid.UUID        `json:"reviewed_by,omitempty"`
	ReviewerName *string           `json:"reviewer_name,omitempty"`
	ReviewedAt   *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
