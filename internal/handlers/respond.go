// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the FashionTechX API.
// Every API response is JSON; failures carry an {"error": "..."} body.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"fashiontechx/internal/collections"
	"fashiontechx/internal/generation"
	"fashiontechx/internal/imaging"
	"fashiontechx/internal/mint"
	"fashiontechx/internal/workspace"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// errBadRequest marks malformed requests.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error     string          `json:"error"`
	Workspace *workspace.View `json:"workspace,omitempty"`
}

// writeJSON serialises data as a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write json response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	var genErr *generation.Error
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, workspace.ErrValidation),
		errors.Is(err, imaging.ErrFileRead),
		errors.Is(err, imaging.ErrUnsupportedType),
		errors.Is(err, imaging.ErrTooLarge),
		errors.Is(err, imaging.ErrTooManyPixels),
		errors.Is(err, mint.ErrInvalidListing),
		errors.Is(err, generation.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, collections.ErrCollectionNotFound),
		errors.Is(err, collections.ErrLookNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrBusy),
		errors.Is(err, workspace.ErrNoResult),
		errors.Is(err, workspace.ErrDiscarded),
		errors.Is(err, mint.ErrBusy),
		errors.Is(err, mint.ErrDiscarded),
		errors.Is(err, mint.ErrAlreadyMinted):
		return http.StatusConflict
	case errors.As(err, &genErr),
		errors.Is(err, generation.ErrNoImage),
		errors.Is(err, generation.ErrCopyMalformed),
		errors.Is(err, generation.ErrCopyIncomplete):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError logs server-side failures and writes the mapped status.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

// respondWorkspaceError reports a failed workspace action together with
// the workspace as it now stands, so the client can show its message.
func respondWorkspaceError(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		slog.Error("workspace action failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	view := ws.View()
	msg := view.Error
	if msg == "" {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg, Workspace: &view})
}

// writeImage decodes a stored base64 image and sends it as a download.
// The content type is sniffed since providers may return JPEG or PNG.
func writeImage(w http.ResponseWriter, r *http.Request, b64, filename string) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil || len(data) == 0 {
		slog.Error("stored image is not valid base64", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "stored image is corrupt")
		return
	}

	if width, _ := strconv.Atoi(r.URL.Query().Get("width")); width > 0 {
		thumb, err := imaging.Thumbnail(data, width)
		if err != nil {
			slog.Error("thumbnail failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusInternalServerError, "thumbnail failed")
			return
		}
		data = thumb
	}

	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// imageNumber parses a 1-based lookbook image number from a route parameter.
func imageNumber(s string, count int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n, true
}

// origin returns the public base URL used in share links.
func origin(r *http.Request, baseURL string) string {
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
