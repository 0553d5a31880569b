// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"fashiontechx/internal/ai"
)

// Providers lets operators inspect and switch the AI provider.
type Providers struct {
	registry *ai.Registry
}

// NewProviders creates the provider handler group.
func NewProviders(registry *ai.Registry) *Providers {
	return &Providers{registry: registry}
}

type providersResponse struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
}

// List returns the active provider and every registered one.
func (h *Providers) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, providersResponse{
		Active:    h.registry.ActiveName(),
		Available: h.registry.Available(),
	})
}

type setProviderRequest struct {
	Name string `json:"name"`
}

// SetActive switches the provider used for new generation batches.
func (h *Providers) SetActive(w http.ResponseWriter, r *http.Request) {
	var req setProviderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))
	if err := h.registry.SetActive(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("ai provider switched", "provider", name)
	h.List(w, r)
}
