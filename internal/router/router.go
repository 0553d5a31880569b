// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains of the
// FashionTechX server: the session-scoped workspace API, the collection
// API, provider administration and the embedded front-end.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fashiontechx/internal/handlers"
	"fashiontechx/internal/middleware"
	"fashiontechx/internal/session"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Sessions    *session.Manager
	Workspace   *handlers.Workspace
	Collections *handlers.Collections
	Providers   *handlers.Providers
	// Limiter guards the generate and mint endpoints. May be nil.
	Limiter *middleware.RateLimiter
	// Static is served at the site root. May be nil.
	Static fs.FS
}

// New creates and returns the configured Chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/workspace", func(r chi.Router) {
			r.Use(middleware.LoadSession(d.Sessions))

			r.Get("/", d.Workspace.Get)
			r.Delete("/", d.Workspace.Clear)
			r.Post("/file", d.Workspace.SelectFile)
			r.Put("/keywords", d.Workspace.SetKeywords)
			r.Post("/save", d.Workspace.Save)
			r.Get("/share", d.Workspace.Share)
			r.Get("/images/{n}", d.Workspace.Image)
			r.Get("/moodboard", d.Workspace.Moodboard)
			r.Delete("/mint", d.Workspace.CloseMint)

			r.Group(func(r chi.Router) {
				if d.Limiter != nil {
					r.Use(d.Limiter.Middleware)
				}
				r.Post("/generate", d.Workspace.Generate)
				r.Post("/mint", d.Workspace.Mint)
			})
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", d.Collections.List)
			r.Post("/", d.Collections.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Collections.Get)
				r.Delete("/", d.Collections.Delete)

				r.Route("/looks/{lookID}", func(r chi.Router) {
					r.Get("/", d.Collections.GetLook)
					r.Delete("/", d.Collections.DeleteLook)
					r.Get("/presskit.md", d.Collections.PressKitMarkdown)
					r.Get("/presskit.html", d.Collections.PressKitHTML)
					r.Get("/share", d.Collections.Share)
					r.Get("/images/{n}", d.Collections.Image)
					r.Get("/moodboard", d.Collections.Moodboard)
				})
			})
		})

		r.Get("/share/qr", d.Collections.QRCode)

		r.Get("/providers", d.Providers.List)
		r.Put("/providers/active", d.Providers.SetActive)
	})

	r.Get("/collections/{id}", d.Collections.Page)

	if d.Static != nil {
		r.Handle("/*", http.FileServerFS(d.Static))
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
