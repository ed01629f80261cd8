// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Folio JSON API.
// Handlers are grouped by concern (public, admin, feeds) and receive their
// dependencies through the handler struct as narrow interfaces.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/middleware"
	"folio/internal/models"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON sends data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError sends the standard {"error": msg} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serverError logs err with context and sends a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON reads a JSON body into dst. It writes a 400 and returns false
// on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "Request body is required")
		default:
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
		}
		return false
	}
	return true
}

// bind decodes and validates a request payload. It writes the error
// response itself and returns false when the handler should stop.
func bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// uuidParam parses a chi URL parameter as a UUID, writing a 400 on failure.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads a non-negative integer query parameter, returning def when
// absent or malformed.
func intQuery(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// boolQuery reports whether a query flag is set to a truthy value.
func boolQuery(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// actorName returns the display name used for activity entries and review
// stamps.
func actorName(r *http.Request) string {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return "system"
	}
	if sess.DisplayName != "" {
		return sess.DisplayName
	}
	return sess.Email
}

// hideEmails clears commenter emails before a public response.
func hideEmails(comments []models.Comment) {
	for i := range comments {
		comments[i].AuthorEmail = ""
		hideEmails(comments[i].Replies)
	}
}
