// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"net/http"

	"github.com/danielhkuo/fedicontest/identity"
	"github.com/danielhkuo/fedicontest/middleware"
	"github.com/danielhkuo/fedicontest/models"
	"github.com/danielhkuo/fedicontest/store"
)

// SubmissionHandler serves submission writes and reads.
type SubmissionHandler struct {
	store  *store.Store
	bridge *identity.Bridge
}

func NewSubmissionHandler(store *store.Store, bridge *identity.Bridge) *SubmissionHandler {
	return &SubmissionHandler{store: store, bridge: bridge}
}

// PostLiterature handles POST /api/contest/submission/literature
func (h *SubmissionHandler) PostLiterature(w http.ResponseWriter, r *http.Request) {
	author, err := requireIdentity(r, h.bridge)
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.PostLiteratureRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.store.CreateLiterature(r.Context(), author, req)
	if err != nil {
		writeError(w, err)
		return
	}
	lit, err := h.store.GetLiterature(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, lit)
}

// PostArt handles POST /api/contest/submission/art (multipart form:
// title, description, isNsfw, data)
func (h *SubmissionHandler) PostArt(w http.ResponseWriter, r *http.Request) {
	author, err := requireIdentity(r, h.bridge)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("data")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "missing image data")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "failed to read image data")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id, err := h.store.CreateArt(r.Context(), author,
		r.FormValue("title"), r.FormValue("description"),
		r.FormValue("isNsfw") == "true", contentType, data)
	if err != nil {
		writeError(w, err)
		return
	}
	meta, err := h.store.GetArtMetadata(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, meta)
}

// GetLiteratureList handles GET /api/contest/literature/metadata
func (h *SubmissionHandler) GetLiteratureList(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListLiteratureMetadata(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetLiteratureMetadata handles GET /api/contest/literature/metadata/{id}
func (h *SubmissionHandler) GetLiteratureMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	meta, err := h.store.GetLiteratureMetadata(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, meta)
}

// GetLiterature handles GET /api/contest/literature/{id}
func (h *SubmissionHandler) GetLiterature(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	lit, err := h.store.GetLiterature(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, lit)
}

// GetArtList handles GET /api/contest/art/metadata
func (h *SubmissionHandler) GetArtList(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListArtMetadata(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetArtMetadata handles GET /api/contest/art/metadata/{id}
func (h *SubmissionHandler) GetArtMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	meta, err := h.store.GetArtMetadata(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, meta)
}

// GetArtImage handles GET /api/contest/art/{id}
func (h *SubmissionHandler) GetArtImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, contentType, err := h.store.GetArtImage(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// GetArtThumbnail handles GET /api/contest/art/thumbnail/{id}
func (h *SubmissionHandler) GetArtThumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := h.store.GetArtThumbnail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(data)
}
