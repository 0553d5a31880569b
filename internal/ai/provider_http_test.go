// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given status
// code and body bytes. The caller must call Close on the returned server.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
}

// openAISuccessBody builds a JSON body matching the OpenAI chat completions
// response format with a single choice containing the given text.
func openAISuccessBody(text string) []byte {
	resp := openAIResponse{
		Choices: []openAIChoice{
			{Message: openAIMessage{Role: "assistant", Content: text}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func openAIImageBody(data []byte) []byte {
	resp := openAIImageResponse{
		Data: []openAIImageData{{B64JSON: base64.StdEncoding.EncodeToString(data)}},
	}
	b, _ := json.Marshal(resp)
	return b
}

// geminiTextBody builds a generateContent response with one text part.
func geminiTextBody(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": text}},
			}},
		},
	})
	return b
}

// geminiImageBody builds a generateContent response with one inline image.
func geminiImageBody(data []byte) []byte {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{
				"role": "model",
				"parts": []any{map[string]any{"inlineData": map[string]any{
					"mimeType": "image/png",
					"data":     base64.StdEncoding.EncodeToString(data),
				}}},
			}},
		},
	})
	return b
}

var copySchema = Schema{
	Name: "marketing_copy",
	Fields: []Field{
		{Name: "instagramCaption", Description: "caption"},
		{Name: "lookbookDescription", Description: "description"},
	},
}

// =====================================================================
// OpenAI Provider Tests
// =====================================================================

func TestOpenAIGenerateStructured_Success(t *testing.T) {
	want := `{"instagramCaption":"c","lookbookDescription":"d"}`
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", BaseURL: srv.URL})

	got, err := p.GenerateStructured(context.Background(), TextRequest{Prompt: "write", Schema: copySchema})
	if err != nil {
		t.Fatalf("GenerateStructured: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("GenerateStructured: got %q, want %q", got, want)
	}
}

func TestOpenAIGenerateStructured_VerifiesRequest(t *testing.T) {
	var capturedHeaders http.Header
	var capturedPath string
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedPath = r.URL.Path
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAISuccessBody("{}"))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "sk-test-12345", Model: "gpt-4o", BaseURL: srv.URL})

	if _, err := p.GenerateStructured(context.Background(), TextRequest{Prompt: "user prompt", Schema: copySchema}); err != nil {
		t.Fatalf("GenerateStructured: %v", err)
	}

	if got := capturedHeaders.Get("Authorization"); got != "Bearer sk-test-12345" {
		t.Errorf("Authorization header: got %q", got)
	}
	if capturedPath != "/chat/completions" {
		t.Errorf("path: got %q", capturedPath)
	}

	var req struct {
		Model          string          `json:"model"`
		Messages       []openAIMessage `json:"messages"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
				Schema struct {
					Required []string `json:"required"`
				} `json:"schema"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	if err := json.Unmarshal(capturedBody, &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if req.Model != "gpt-4o" {
		t.Errorf("model: got %q", req.Model)
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "user prompt" {
		t.Errorf("messages: got %+v", req.Messages)
	}
	if req.ResponseFormat.Type != "json_schema" || !req.ResponseFormat.JSONSchema.Strict {
		t.Errorf("response_format: got %+v", req.ResponseFormat)
	}
	if req.ResponseFormat.JSONSchema.Name != "marketing_copy" {
		t.Errorf("schema name: got %q", req.ResponseFormat.JSONSchema.Name)
	}
	if got := req.ResponseFormat.JSONSchema.Schema.Required; len(got) != 2 || got[0] != "instagramCaption" {
		t.Errorf("required: got %v", got)
	}
}

func TestOpenAIGenerateStructured_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{"error":"rate limited"}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	_, err := p.GenerateStructured(context.Background(), TextRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should carry status and body: %v", err)
	}
}

func TestOpenAIGenerateStructured_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"choices":[]}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	if _, err := p.GenerateStructured(context.Background(), TextRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestOpenAIGenerateStructured_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{not json`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	if _, err := p.GenerateStructured(context.Background(), TextRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestOpenAIGenerateImage_EditWithReference(t *testing.T) {
	want := []byte("\x89PNG fake")
	var capturedPath, capturedModel, capturedPrompt, capturedType string
	var capturedImage []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		capturedModel = r.FormValue("model")
		capturedPrompt = r.FormValue("prompt")
		f, h, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else {
			capturedType = h.Header.Get("Content-Type")
			capturedImage, _ = io.ReadAll(f)
			f.Close()
		}
		w.Write(openAIImageBody(want))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	img, err := p.GenerateImage(context.Background(), ImageRequest{
		Prompt:    "studio shot",
		Reference: &InlineImage{MIMEType: "image/jpeg", Data: []byte("sketch")},
	})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img.Data) != string(want) || img.MIMEType != "image/png" {
		t.Errorf("image: got %+v", img)
	}
	if capturedPath != "/images/edits" {
		t.Errorf("path: got %q", capturedPath)
	}
	if capturedModel != defaultOpenAIImageModel || capturedPrompt != "studio shot" {
		t.Errorf("form: model=%q prompt=%q", capturedModel, capturedPrompt)
	}
	if capturedType != "image/jpeg" || string(capturedImage) != "sketch" {
		t.Errorf("image part: type=%q data=%q", capturedType, capturedImage)
	}
}

func TestOpenAIGenerateImage_WithoutReference(t *testing.T) {
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Write(openAIImageBody([]byte("png")))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	if _, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "collage"}); err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if capturedPath != "/images/generations" {
		t.Errorf("path: got %q", capturedPath)
	}
}

func TestOpenAIGenerateImage_NoImage(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"data":[{"b64_json":""}]}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	_, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("err = %v, want ErrNoImage", err)
	}
}

func TestOpenAIGenerate_CancelledContext(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, openAISuccessBody("ok"))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.GenerateStructured(ctx, TextRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestOpenAIDefaults(t *testing.T) {
	p := newOpenAI(ProviderConfig{APIKey: "k"})
	if p.config.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL: got %q", p.config.BaseURL)
	}
	if p.config.Model != defaultOpenAIModel || p.config.ModelImage != defaultOpenAIImageModel {
		t.Errorf("models: got %q / %q", p.config.Model, p.config.ModelImage)
	}
	if p.Name() != "openai" {
		t.Errorf("Name: got %q", p.Name())
	}
}

// =====================================================================
// Gemini Provider Tests
// =====================================================================

func newTestGemini(t *testing.T, srv *httptest.Server) *geminiProvider {
	t.Helper()
	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "g-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}
	return p
}

func TestGeminiGenerateImage_Success(t *testing.T) {
	want := []byte("\x89PNG gemini")
	var capturedPath string
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiImageBody(want))
	}))
	defer srv.Close()

	p := newTestGemini(t, srv)

	img, err := p.GenerateImage(context.Background(), ImageRequest{
		Prompt:    "runway",
		Reference: &InlineImage{MIMEType: "image/png", Data: []byte("sketch")},
	})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img.Data) != string(want) || img.MIMEType != "image/png" {
		t.Errorf("image: got %+v", img)
	}
	if !strings.HasSuffix(capturedPath, "models/"+defaultGeminiImageModel+":generateContent") {
		t.Errorf("path: got %q", capturedPath)
	}
	body := string(capturedBody)
	if !strings.Contains(body, base64.StdEncoding.EncodeToString([]byte("sketch"))) {
		t.Errorf("request is missing the inline sketch: %s", body)
	}
	if !strings.Contains(body, "IMAGE") {
		t.Errorf("request is missing the image modality: %s", body)
	}
}

func TestGeminiGenerateImage_TextOnlyResponse(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, geminiTextBody("I cannot draw that"))
	defer srv.Close()

	p := newTestGemini(t, srv)

	_, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("err = %v, want ErrNoImage", err)
	}
}

func TestGeminiGenerateStructured_Success(t *testing.T) {
	want := `{"instagramCaption":"c","lookbookDescription":"d"}`
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiTextBody(want))
	}))
	defer srv.Close()

	p := newTestGemini(t, srv)

	got, err := p.GenerateStructured(context.Background(), TextRequest{Prompt: "write", Schema: copySchema})
	if err != nil {
		t.Fatalf("GenerateStructured: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	body := string(capturedBody)
	if !strings.Contains(body, "application/json") || !strings.Contains(body, "lookbookDescription") {
		t.Errorf("request is missing the response schema: %s", body)
	}
}

func TestGeminiGenerate_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest, []byte(`{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`))
	defer srv.Close()

	p := newTestGemini(t, srv)

	if _, err := p.GenerateStructured(context.Background(), TextRequest{Prompt: "x", Schema: copySchema}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"candidates":[]}`))
	defer srv.Close()

	p := newTestGemini(t, srv)

	if _, err := p.GenerateStructured(context.Background(), TextRequest{Prompt: "x", Schema: copySchema}); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestGeminiDefaults(t *testing.T) {
	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}
	if p.config.Model != defaultGeminiModel || p.config.ModelImage != defaultGeminiImageModel {
		t.Errorf("models: got %q / %q", p.config.Model, p.config.ModelImage)
	}
	if p.Name() != "gemini" {
		t.Errorf("Name: got %q", p.Name())
	}
}

// =====================================================================
// Registry over HTTP providers
// =====================================================================

func TestRegistry_WithRealHTTPProviders(t *testing.T) {
	openaiSrv := newTestServer(t, http.StatusOK, openAISuccessBody("openai response"))
	defer openaiSrv.Close()

	geminiSrv := newTestServer(t, http.StatusOK, geminiTextBody("gemini response"))
	defer geminiSrv.Close()

	reg := NewRegistry(context.Background(), "openai", map[string]ProviderConfig{
		"openai": {APIKey: "ok1", BaseURL: openaiSrv.URL},
		"gemini": {APIKey: "ok2", BaseURL: geminiSrv.URL},
	})

	tests := []struct {
		providerName string
		wantResult   string
	}{
		{"openai", "openai response"},
		{"gemini", "gemini response"},
	}

	for _, tt := range tests {
		t.Run(tt.providerName, func(t *testing.T) {
			if err := reg.SetActive(tt.providerName); err != nil {
				t.Fatalf("SetActive(%q): %v", tt.providerName, err)
			}

			got, err := reg.GenerateStructured(context.Background(), TextRequest{Prompt: "p", Schema: copySchema})
			if err != nil {
				t.Fatalf("GenerateStructured with %s: %v", tt.providerName, err)
			}
			if got != tt.wantResult {
				t.Errorf("GenerateStructured with %s: got %q, want %q", tt.providerName, got, tt.wantResult)
			}
		})
	}
}
