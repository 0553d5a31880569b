// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fashiontechx/internal/collections"
	"fashiontechx/internal/models"
	"fashiontechx/internal/presskit"
	"fashiontechx/internal/render"
	"fashiontechx/internal/share"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

// Collections serves saved collections, their looks and the press kits.
type Collections struct {
	service  *collections.Service
	renderer *render.Renderer
	baseURL  string
}

// NewCollections creates the collections handler group.
func NewCollections(service *collections.Service, renderer *render.Renderer, baseURL string) *Collections {
	return &Collections{service: service, renderer: renderer, baseURL: baseURL}
}

// List returns every collection in creation order.
func (h *Collections) List(w http.ResponseWriter, r *http.Request) {
	cols, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

type createCollectionRequest struct {
	Name string `json:"name"`
}

// Create adds an empty collection.
func (h *Collections) Create(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validateCollectionName(req.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	c, err := h.service.Create(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("collection created", "id", c.ID, "name", c.Name)
	writeJSON(w, http.StatusCreated, c)
}

// Get returns one collection with its looks.
func (h *Collections) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a collection. Unknown IDs are not an error.
func (h *Collections) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLook returns one look.
func (h *Collections) GetLook(w http.ResponseWriter, r *http.Request) {
	look, err := h.look(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, look)
}

// DeleteLook removes a look from its collection. Unknown IDs are not an error.
func (h *Collections) DeleteLook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLook(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lookID")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Collections) look(r *http.Request) (*models.Look, error) {
	return h.service.GetLook(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lookID"))
}

// PressKitMarkdown serves the press kit of a look as a Markdown download.
func (h *Collections) PressKitMarkdown(w http.ResponseWriter, r *http.Request) {
	c, look, err := h.collectionAndLook(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", share.PressKitFileName(look.Name, ".md")))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(presskit.Markdown(c.Name, look)))
}

// PressKitHTML renders the press kit of a look as a standalone page.
func (h *Collections) PressKitHTML(w http.ResponseWriter, r *http.Request) {
	c, look, err := h.collectionAndLook(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	body, err := presskit.HTML(c.Name, look)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.renderer.Page(w, "presskit", &render.PageData{
		Title: look.Name + " press kit",
		Data: map[string]any{
			"Body": body,
			"Look": look,
		},
	})
}

func (h *Collections) collectionAndLook(r *http.Request) (*models.Collection, *models.Look, error) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, nil, err
	}
	look := c.FindLook(chi.URLParam(r, "lookID"))
	if look == nil {
		return nil, nil, fmt.Errorf("look %s: %w", chi.URLParam(r, "lookID"), collections.ErrLookNotFound)
	}
	return c, look, nil
}

// Share returns the social share links and download URLs of a saved look.
func (h *Collections) Share(w http.ResponseWriter, r *http.Request) {
	look, err := h.look(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	base := origin(r, h.baseURL)
	id := chi.URLParam(r, "id")
	prefix := base + "/api/collections/" + id + "/looks/" + look.ID
	writeJSON(w, http.StatusOK, shareResponse{
		Links:     share.SocialLinks(base+"/collections/"+id, prefix+"/images/1", look.MarketingCopy),
		Downloads: downloads(prefix, len(look.Images)),
	})
}

// Image serves a lookbook image of a saved look.
func (h *Collections) Image(w http.ResponseWriter, r *http.Request) {
	look, err := h.look(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	n, ok := imageNumber(chi.URLParam(r, "n"), len(look.Images))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("image %s not found", chi.URLParam(r, "n")))
		return
	}
	writeImage(w, r, look.Images[n-1], share.DesignFileName(n))
}

// Moodboard serves the mood board of a saved look.
func (h *Collections) Moodboard(w http.ResponseWriter, r *http.Request) {
	look, err := h.look(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeImage(w, r, look.MoodboardImage, share.MoodboardFileName)
}

// Page renders a collection as a lookbook page; this is the URL share
// links point to.
func (h *Collections) Page(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := errorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("collection page failed", "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	h.renderer.Page(w, "collection", &render.PageData{
		Title: c.Name,
		Data:  map[string]any{"Collection": c},
	})
}

// QRCode renders a QR code PNG for the url query parameter.
func (h *Collections) QRCode(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if msg := validateShareURL(target); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 64 || n > maxQRSize {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("size must be between 64 and %d", maxQRSize))
			return
		}
		size = n
	}

	png, err := share.QRCode(strings.TrimSpace(target), size)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
