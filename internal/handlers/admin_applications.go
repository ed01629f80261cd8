// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/store"
)

const invalidApplicationStatus = "Invalid status: must be one of pending, approved, rejected"

// ApplicationsList lists author applications, newest first. ?status=
// narrows the list and must name a known status.
func (a *Admin) ApplicationsList(w http.ResponseWriter, r *http.Request) {
	var status models.ApplicationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		var err error
		if status, err = models.ParseApplicationStatus(raw); err != nil {
			writeError(w, http.StatusBadRequest, invalidApplicationStatus)
			return
		}
	}

	apps, err := a.applications.List(r.Context(), status)
	if err != nil {
		serverError(w, r, "list applications failed", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(apps))
}

type reviewRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes" validate:"omitempty,max=5000"`
}

// reviewerID returns the session user's UUID, or nil for the environment
// admin and any other id that is not a stored user.
func (a *Admin) reviewerID(r *http.Request) *uuid.UUID {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || sess.UserID == a.envAdminID {
		return nil
	}
	id, err := uuid.Parse(sess.UserID)
	if err != nil {
		slog.Warn("session user id is not a uuid", "user_id", sess.UserID)
		return nil
	}
	return &id
}

// ApplicationReview records a decision and/or notes on an application and
// stamps the reviewer.
func (a *Admin) ApplicationReview(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !bind(w, r, &req) {
		return
	}
	if req.Status == nil && req.Notes == nil {
		writeError(w, http.StatusBadRequest, "status or notes is required")
		return
	}

	review := store.Review{
		Notes:        req.Notes,
		ReviewerID:   a.reviewerID(r),
		ReviewerName: actorName(r),
	}
	if req.Status != nil {
		status, err := models.ParseApplicationStatus(*req.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, invalidApplicationStatus)
			return
		}
		review.Status = &status
	}

	app, err := a.applications.Review(r.Context(), id, review)
	if errors.Is(err, models.ErrInvalidStatus) {
		writeError(w, http.StatusBadRequest, invalidApplicationStatus)
		return
	}
	if err != nil {
		serverError(w, r, "review application failed", err)
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, "Application not found")
		return
	}

	a.logActivity(r, "review", "author_application", &app.ID, string(app.Status))
	writeJSON(w, http.StatusOK, app)
}

// ApplicationDelete removes an application. Admin only.
func (a *Admin) ApplicationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	found, err := a.applications.Delete(r.Context(), id)
	if err != nil {
		serverError(w, r, "delete application failed", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Application not found")
		return
	}

	a.logActivity(r, "delete", "author_application", &id, "")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
