package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"snaptales/application/services"
	"snaptales/pkg/common"
	pkgerrors "snaptales/pkg/errors"
)

// maxUploadBytes caps a single media upload at 10 MiB
const maxUploadBytes = 10 << 20

// MediaHandler handles media uploads and deletions
type MediaHandler struct {
	mediaService *services.MediaService
	errors       *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *services.MediaService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		errors:       errors,
		logger:       logger,
	}
}

// UploadResponse carries the stored reference and a fetchable URL
type UploadResponse struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

// Upload handles POST /media. The image travels as the "file" part of a
// multipart form.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid multipart form or file too large"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("missing file part"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ref, url, err := h.mediaService.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, UploadResponse{
		Ref: ref.String(),
		URL: url,
	})
}

// ResolveURL handles GET /media/{ref}/url
func (h *MediaHandler) ResolveURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.mediaService.ResolveURL(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Delete handles DELETE /media/{ref}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.mediaService.Delete(r.Context(), chi.URLParam(r, "ref")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
