// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is the gradient token used when a category has no
// color of its own.
const DefaultCategoryColor = "from-slate-500 to-slate-700"

// Category groups articles by topic. Each article has at most one category.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	ArticleCount int `json:"article_count"`
}

// DisplayColor returns the category color, or the default gradient token
// when none is set.
func (c *Category) DisplayColor() string {
	if c.Color == "" {
		return DefaultCategoryColor
	}
	return c.Color
}
