// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Every test runs against an in-memory store and the synthetic provider, so
// no external service is needed.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"fashiontechx/internal/ai"
	"fashiontechx/internal/collections"
	"fashiontechx/internal/generation"
	"fashiontechx/internal/kv"
	"fashiontechx/internal/middleware"
	"fashiontechx/internal/mint"
	"fashiontechx/internal/models"
	"fashiontechx/internal/render"
	"fashiontechx/internal/session"
	"fashiontechx/internal/store"
	"fashiontechx/internal/workspace"
)

// testEnv holds a running server and a cookie-aware client.
type testEnv struct {
	Server      *httptest.Server
	Client      *http.Client
	Collections *collections.Service
	Registry    *ai.Registry
}

// failingGenerator fails every batch with the given error.
type failingGenerator struct{ err error }

func (g failingGenerator) Generate(context.Context, []byte, string, string) (*models.GeneratedAssetData, error) {
	return nil, g.err
}

type envOption func(*envConfig)

type envConfig struct {
	generator workspace.Generator
}

func withGenerator(g workspace.Generator) envOption {
	return func(c *envConfig) { c.generator = g }
}

// newTestEnv wires the handlers the way the router does and starts a server.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	registry := ai.NewRegistry(context.Background(), ai.SyntheticName, nil)
	cfg := envConfig{generator: generation.NewClient(registry)}
	for _, opt := range opts {
		opt(&cfg)
	}

	cols := collections.NewService(store.NewCollectionStore(kv.NewMemory()))
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	wsH := NewWorkspace(cfg.generator, cols, mint.NewSimulatedMinter(time.Millisecond), "")
	colH := NewCollections(cols, renderer, "")
	provH := NewProviders(registry)

	r := chi.NewRouter()
	r.Route("/api/workspace", func(r chi.Router) {
		r.Use(middleware.LoadSession(session.NewManager(nil, time.Hour, false)))
		r.Get("/", wsH.Get)
		r.Delete("/", wsH.Clear)
		r.Post("/file", wsH.SelectFile)
		r.Put("/keywords", wsH.SetKeywords)
		r.Post("/generate", wsH.Generate)
		r.Post("/save", wsH.Save)
		r.Post("/mint", wsH.Mint)
		r.Delete("/mint", wsH.CloseMint)
		r.Get("/share", wsH.Share)
		r.Get("/images/{n}", wsH.Image)
		r.Get("/moodboard", wsH.Moodboard)
	})
	r.Route("/api/collections", func(r chi.Router) {
		r.Get("/", colH.List)
		r.Post("/", colH.Create)
		r.Get("/{id}", colH.Get)
		r.Delete("/{id}", colH.Delete)
		r.Get("/{id}/looks/{lookID}", colH.GetLook)
		r.Delete("/{id}/looks/{lookID}", colH.DeleteLook)
		r.Get("/{id}/looks/{lookID}/presskit.md", colH.PressKitMarkdown)
		r.Get("/{id}/looks/{lookID}/presskit.html", colH.PressKitHTML)
		r.Get("/{id}/looks/{lookID}/share", colH.Share)
		r.Get("/{id}/looks/{lookID}/images/{n}", colH.Image)
		r.Get("/{id}/looks/{lookID}/moodboard", colH.Moodboard)
	})
	r.Get("/api/share/qr", colH.QRCode)
	r.Get("/api/providers", provH.List)
	r.Put("/api/providers/active", provH.SetActive)
	r.Get("/collections/{id}", colH.Page)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &testEnv{
		Server:      srv,
		Client:      &http.Client{Jar: jar},
		Collections: cols,
		Registry:    registry,
	}
}

// do sends a request with an optional JSON body and returns the response
// with its body read.
func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.Server.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

// upload posts a multipart file to the workspace.
func (e *testEnv) upload(t *testing.T, name string, content []byte) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, e.Server.URL+"/api/workspace/file", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.send(t, req)
}

// prepareResult uploads a sketch, sets keywords and generates.
func (e *testEnv) prepareResult(t *testing.T) workspace.View {
	t.Helper()

	if resp, body := e.upload(t, "sketch.png", pngBytes(t, 10, 10)); resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: status %d: %s", resp.StatusCode, body)
	}
	if resp, body := e.do(t, http.MethodPut, "/api/workspace/keywords", map[string]string{"keywords": "floral, pastel"}); resp.StatusCode != http.StatusOK {
		t.Fatalf("keywords: status %d: %s", resp.StatusCode, body)
	}
	resp, body := e.do(t, http.MethodPost, "/api/workspace/generate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate: status %d: %s", resp.StatusCode, body)
	}
	var view workspace.View
	decode(t, body, &view)
	return view
}

func decode(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
