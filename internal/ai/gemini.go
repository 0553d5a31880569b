// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel      = "gemini-2.5-flash"
	defaultGeminiImageModel = "gemini-2.5-flash-image"
)

// geminiProvider implements the Provider interface with the Gemini API
// through the genai SDK (generateContent).
type geminiProvider struct {
	config ProviderConfig
	client *genai.Client
}

// newGemini creates a new Google Gemini provider.
func newGemini(ctx context.Context, cfg ProviderConfig) (*geminiProvider, error) {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.ModelImage == "" {
		cfg.ModelImage = defaultGeminiImageModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiProvider{config: cfg, client: client}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

// GenerateImage asks the image model for a single image, with the reference
// sketch as the first part of the user turn.
func (p *geminiProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	var parts []*genai.Part
	if req.Reference != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Reference.Data, req.Reference.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	resp, err := p.client.Models.GenerateContent(ctx, p.config.ModelImage,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseModalities: []string{"IMAGE"}},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini image: %w", err)
	}

	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return &Image{MIMEType: mimeType, Data: part.InlineData.Data}, nil
			}
		}
	}

	return nil, fmt.Errorf("gemini image: %w", ErrNoImage)
}

// GenerateStructured requests a JSON response constrained by the schema.
func (p *geminiProvider) GenerateStructured(ctx context.Context, req TextRequest) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model,
		genai.Text(req.Prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   geminiSchema(req.Schema),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini: no text in response")
	}
	return b.String(), nil
}

func geminiSchema(s Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
		}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         s.FieldNames(),
		PropertyOrdering: s.FieldNames(),
	}
}
