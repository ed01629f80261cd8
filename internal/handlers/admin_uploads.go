package handlers

import (
	"net/http"

	"folio/internal/storage"
)

type uploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

// UploadCreate issues a presigned PUT URL for a media upload. The browser
// sends the file straight to object storage.
func (a *Admin) UploadCreate(w http.ResponseWriter, r *http.Request) {
	if a.uploads == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}
	var req uploadRequest
	if !bind(w, r, &req) {
		return
	}
	if !storage.AllowedType(req.ContentType) {
		writeError(w, http.StatusBadRequest, "Unsupported content type: images and PDF only")
		return
	}

	upload, err := a.uploads.PresignUpload(r.Context(), req.Filename, req.ContentType, storage.DefaultUploadExpiry)
	if err != nil {
		serverError(w, r, "presign upload failed", err)
		return
	}

	a.logActivity(r, "upload", "media", nil, upload.Key)
	writeJSON(w, http.StatusCreated, upload)
}
