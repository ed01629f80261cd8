// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Author is a contributor profile from the fixture store.
type Author struct {
	Slug    string            `json:"slug"`
	Name    string            `json:"name"`
	Role    string            `json:"role"`
	Bio     string            `json:"bio"`
	Avatar  string            `json:"avatar"`
	Socials map[string]string `json:"socials,omitempty"`
	Active  bool              `json:"active"`
}

// Issue is a numbered print issue from the fixture store.
type Issue struct {
	Number      int       `json:"number"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Cover       string    `json:"cover"`
	PDFURL      string    `json:"pdf_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Active      bool      `json:"active"`
}

// Quote is an editorial pull quote shown in rotation.
type Quote struct {
	Text        string `json:"text"`
	Attribution string `json:"attribution"`
	Active      bool   `json:"active"`
}

// Theme is a named set of gradient tokens for the site chrome.
type Theme struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	Gradients []string `json:"gradients"`
	Active    bool     `json:"active"`
}
