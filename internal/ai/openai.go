// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

const (
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultOpenAIImageModel = "gpt-image-1"
)

// openAIProvider implements the Provider interface using the OpenAI REST
// API: chat completions for structured copy and the images endpoints for
// pictures.
type openAIProvider struct {
	config ProviderConfig
	client *http.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.ModelImage == "" {
		cfg.ModelImage = defaultOpenAIImageModel
	}
	return &openAIProvider{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return "openai" }

// GenerateStructured sends a chat completion constrained by a strict JSON
// schema and returns the assistant's JSON text.
func (p *openAIProvider) GenerateStructured(ctx context.Context, req TextRequest) (string, error) {
	name := req.Schema.Name
	if name == "" {
		name = "response"
	}

	body := openAIRequest{
		Model: p.config.Model,
		Messages: []openAIMessage{
			{Role: "user", Content: req.Prompt},
		},
		ResponseFormat: &openAIResponseFormat{
			Type: "json_schema",
			JSONSchema: openAIJSONSchema{
				Name:   name,
				Strict: true,
				Schema: req.Schema.jsonSchema(),
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openai marshal: %w", err)
	}

	respBody, err := p.do(ctx, "/chat/completions", "application/json", payload)
	if err != nil {
		return "", err
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai unmarshal: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	return result.Choices[0].Message.Content, nil
}

// GenerateImage uses images/edits when a reference image is supplied and
// images/generations otherwise. Both return base64 PNG data.
func (p *openAIProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	var (
		respBody []byte
		err      error
	)
	if req.Reference != nil {
		respBody, err = p.editImage(ctx, req)
	} else {
		respBody, err = p.createImage(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	var result openAIImageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("openai image unmarshal: %w", err)
	}

	for _, d := range result.Data {
		if d.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("openai image decode base64: %w", err)
		}
		return &Image{MIMEType: "image/png", Data: data}, nil
	}

	return nil, fmt.Errorf("openai image: %w", ErrNoImage)
}

func (p *openAIProvider) createImage(ctx context.Context, req ImageRequest) ([]byte, error) {
	payload, err := json.Marshal(openAIImageRequest{
		Model:  p.config.ModelImage,
		Prompt: req.Prompt,
		N:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image marshal: %w", err)
	}
	return p.do(ctx, "/images/generations", "application/json", payload)
}

func (p *openAIProvider) editImage(ctx context.Context, req ImageRequest) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("model", p.config.ModelImage); err != nil {
		return nil, fmt.Errorf("openai image form: %w", err)
	}
	if err := mw.WriteField("prompt", req.Prompt); err != nil {
		return nil, fmt.Errorf("openai image form: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="sketch`+imageExtension(req.Reference.MIMEType)+`"`)
	h.Set("Content-Type", req.Reference.MIMEType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("openai image form: %w", err)
	}
	if _, err := part.Write(req.Reference.Data); err != nil {
		return nil, fmt.Errorf("openai image form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("openai image form: %w", err)
	}

	return p.do(ctx, "/images/edits", mw.FormDataContentType(), buf.Bytes())
}

// do performs an authenticated POST and returns the body of a 200 response.
func (p *openAIProvider) do(ctx context.Context, path, contentType string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func imageExtension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// --- OpenAI request/response types ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIJSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type openAIResponseFormat struct {
	Type       string           `json:"type"`
	JSONSchema openAIJSONSchema `json:"json_schema"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}

type openAIImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
}

type openAIImageResponse struct {
	Data []openAIImageData `json:"data"`
}

type openAIImageData struct {
	B64JSON string `json:"b64_json"`
}
