// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidStatus is returned when a status string does not belong to the
// enumeration it is parsed into.
var ErrInvalidStatus = errors.New("invalid status")

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusSpam     CommentStatus = "spam"
)

// ParseCommentStatus converts a raw string into a CommentStatus.
func ParseCommentStatus(s string) (CommentStatus, error) {
	switch cs := CommentStatus(s); cs {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam:
		return cs, nil
	}
	return "", ErrInvalidStatus
}

// Comment is a reader comment on an article. Replies point at their parent
// through ParentID; threads are one level deep.
type Comment struct {
	ID          uuid.UUID     `json:"id"`
	ArticleID   uuid.UUID     `json:"article_id"`
	ParentID    *uuid.UUID    `json:"parent_id,omitempty"`
	AuthorName  string        `json:"author_name"`
	AuthorEmail string        `json:"author_email,omitempty"`
	Content     string        `json:"content"`
	Status      CommentStatus `json:"status"`
	IsAdmin     bool          `json:"is_admin"`
	Likes       int           `json:"likes"`
	CreatedAt   time.Time     `json:"created_at"`

	// Virtual field populated when building threads.
	Replies []Comment `json:"replies,omitempty"`
}

// IsTopLevel reports whether the comment starts a thread.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}
