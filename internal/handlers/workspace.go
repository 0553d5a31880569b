// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fashiontechx/internal/collections"
	"fashiontechx/internal/imaging"
	"fashiontechx/internal/middleware"
	"fashiontechx/internal/mint"
	"fashiontechx/internal/models"
	"fashiontechx/internal/share"
	"fashiontechx/internal/workspace"
)

// maxUploadBody leaves room for the multipart envelope around a sketch.
const maxUploadBody = imaging.MaxSketchSize + 1<<20

// Workspace serves the per-session design workspace.
type Workspace struct {
	generator   workspace.Generator
	collections *collections.Service
	minter      mint.Minter
	baseURL     string
}

// NewWorkspace creates the workspace handler group. baseURL may be empty,
// in which case share links are built from the request host.
func NewWorkspace(gen workspace.Generator, cols *collections.Service, minter mint.Minter, baseURL string) *Workspace {
	return &Workspace{
		generator:   gen,
		collections: cols,
		minter:      minter,
		baseURL:     baseURL,
	}
}

func (h *Workspace) current(w http.ResponseWriter, r *http.Request) *workspace.Workspace {
	ws := middleware.WorkspaceFromContext(r.Context())
	if ws == nil {
		slog.Error("workspace missing from request context", "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "session unavailable")
	}
	return ws
}

// Get returns the workspace view.
func (h *Workspace) Get(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}
	writeJSON(w, http.StatusOK, ws.View())
}

// SelectFile accepts a multipart upload in the "file" field. An optional
// "keywords" field replaces the keywords in the same request.
func (h *Workspace) SelectFile(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, workspace.MsgTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "expected a multipart form with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if kw, ok := r.MultipartForm.Value["keywords"]; ok && len(kw) > 0 {
		if msg := validateKeywords(kw[0]); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		ws.SetKeywords(kw[0])
	}

	if err := ws.SelectFile(header.Filename, file); err != nil {
		respondWorkspaceError(w, r, ws, err)
		return
	}

	slog.Info("sketch selected", "session", middleware.SessionIDFromContext(r.Context()), "name", header.Filename, "size", header.Size)
	writeJSON(w, http.StatusOK, ws.View())
}

type keywordsRequest struct {
	Keywords string `json:"keywords"`
}

// SetKeywords replaces the style keywords.
func (h *Workspace) SetKeywords(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}

	var req keywordsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validateKeywords(req.Keywords); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ws.SetKeywords(req.Keywords)
	writeJSON(w, http.StatusOK, ws.View())
}

// Generate runs the asset batch for the current sketch. The batch is not
// tied to the request, so a client that disconnects still finds the result
// in its workspace.
func (h *Workspace) Generate(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}

	if _, err := ws.Generate(context.WithoutCancel(r.Context()), h.generator); err != nil {
		respondWorkspaceError(w, r, ws, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.View())
}

// Clear resets the workspace.
func (h *Workspace) Clear(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}
	ws.Clear()
	writeJSON(w, http.StatusOK, ws.View())
}

type saveResponse struct {
	Look      *models.Look   `json:"look"`
	Workspace workspace.View `json:"workspace"`
}

// Save stores the current result as a look in a collection.
func (h *Workspace) Save(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}

	var req workspace.SaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validateSaveRequest(req.LookName, req.NewCollectionName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	look, err := ws.SaveLook(r.Context(), h.collections, req)
	if err != nil {
		respondWorkspaceError(w, r, ws, err)
		return
	}

	slog.Info("look saved", "collection", req.CollectionID, "look", look.ID)
	writeJSON(w, http.StatusCreated, saveResponse{Look: look, Workspace: ws.View()})
}

// mintRequest selects a lookbook image (1-based) and the listing.
type mintRequest struct {
	Image int `json:"image"`
	mint.Listing
}

type mintResponse struct {
	Receipt *mint.Receipt `json:"receipt"`
	Mint    mint.Status   `json:"mint"`
}

// Mint lists a lookbook image as an NFT. Omitted listing fields take the
// dialog's defaults.
func (h *Workspace) Mint(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}

	req := mintRequest{Image: 1, Listing: mint.DefaultListing()}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	receipt, err := ws.Mint(context.WithoutCancel(r.Context()), h.minter, req.Image-1, req.Listing)
	if err != nil {
		status := errorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("mint failed", "error", err)
		}
		writeJSON(w, status, struct {
			Error string      `json:"error"`
			Mint  mint.Status `json:"mint"`
		}{err.Error(), ws.View().Mint})
		return
	}

	slog.Info("look minted", "chain", receipt.Chain, "tx", receipt.TxHash)
	writeJSON(w, http.StatusOK, mintResponse{Receipt: receipt, Mint: ws.View().Mint})
}

// CloseMint resets the mint dialog.
func (h *Workspace) CloseMint(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}
	if err := ws.CloseMint(); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.View().Mint)
}

type download struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type shareResponse struct {
	Links     share.Links `json:"links"`
	Downloads []download  `json:"downloads"`
}

// Share returns the social share links and download URLs for the current
// result.
func (h *Workspace) Share(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}

	res, err := ws.Result()
	if err != nil {
		respondError(w, r, err)
		return
	}

	base := origin(r, h.baseURL)
	writeJSON(w, http.StatusOK, shareResponse{
		Links:     share.SocialLinks(base+"/", base+"/api/workspace/images/1", res.MarketingCopy),
		Downloads: downloads(base+"/api/workspace", len(res.Images)),
	})
}

func downloads(prefix string, images int) []download {
	out := make([]download, 0, images+1)
	for n := 1; n <= images; n++ {
		out = append(out, download{
			Name: share.DesignFileName(n),
			URL:  prefix + "/images/" + strconv.Itoa(n) + "?download=1",
		})
	}
	return append(out, download{Name: share.MoodboardFileName, URL: prefix + "/moodboard?download=1"})
}

// Image serves a lookbook image of the current result.
func (h *Workspace) Image(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}

	res, err := ws.Result()
	if err != nil {
		respondError(w, r, err)
		return
	}
	n, ok := imageNumber(chi.URLParam(r, "n"), len(res.Images))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("image %s not found", chi.URLParam(r, "n")))
		return
	}
	writeImage(w, r, res.Images[n-1], share.DesignFileName(n))
}

// Moodboard serves the mood board of the current result.
func (h *Workspace) Moodboard(w http.ResponseWriter, r *http.Request) {
	ws := h.current(w, r)
	if ws == nil {
		return
	}

	res, err := ws.Result()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeImage(w, r, res.MoodboardImage, share.MoodboardFileName)
}
