// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface over the generative providers
// (Gemini, OpenAI and an offline synthetic provider). Each provider
// implements the Provider interface, and the Registry selects the active one
// by name.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// ErrNoImage is returned when a provider response carries no image payload.
var ErrNoImage = errors.New("ai: no image in response")

// InlineImage is binary image data sent along with a prompt.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Image is a generated image.
type Image struct {
	MIMEType string
	Data     []byte
}

// ImageRequest asks for one image. Reference, when set, is passed to the
// model as the visual starting point.
type ImageRequest struct {
	Prompt    string
	Reference *InlineImage
}

// TextRequest asks for a JSON object matching Schema.
type TextRequest struct {
	Prompt string
	Schema Schema
}

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own transport and response parsing.
type Provider interface {
	// GenerateImage returns a single image for the request, or an error
	// wrapping ErrNoImage when the model answered without one.
	GenerateImage(ctx context.Context, req ImageRequest) (*Image, error)

	// GenerateStructured returns the raw JSON text produced for req.Schema.
	GenerateStructured(ctx context.Context, req TextRequest) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey     string
	Model      string
	ModelImage string
	BaseURL    string
}

// Registry manages available AI providers and selects the active one.
// It supports runtime switching by changing the active provider name.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are skipped. The
// synthetic provider needs no key and is always registered.
func NewRegistry(ctx context.Context, active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: map[string]Provider{
			SyntheticName: NewSynthetic(),
		},
		active: active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.register(name, newOpenAI(cfg))
		case "gemini":
			p, err := newGemini(ctx, cfg)
			if err != nil {
				slog.Warn("gemini provider unavailable", "error", err)
				continue
			}
			r.register(name, p)
		}
	}

	return r
}

// Name returns the name of the active provider, so a Registry can be used
// wherever a Provider is expected.
func (r *Registry) Name() string {
	return r.ActiveName()
}

// GenerateImage calls the active provider's GenerateImage method.
func (r *Registry) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	p, err := r.Active()
	if err != nil {
		return nil, err
	}
	return p.GenerateImage(ctx, req)
}

// GenerateStructured calls the active provider's GenerateStructured method.
func (r *Registry) GenerateStructured(ctx context.Context, req TextRequest) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.GenerateStructured(ctx, req)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all registered providers.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// register adds or replaces a provider in the registry.
func (r *Registry) register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}
