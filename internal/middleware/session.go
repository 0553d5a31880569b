// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"fashiontechx/internal/session"
	"fashiontechx/internal/workspace"
)

type contextKey string

const (
	workspaceKey contextKey = "workspace"
	sessionIDKey contextKey = "session_id"
)

// LoadSession attaches the caller's workspace to the request context and
// persists its snapshot once the handler returns, even if the client has
// gone away by then.
func LoadSession(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ws, err := mgr.Workspace(r.Context(), w, r)
			if err != nil {
				slog.Error("session load failed", "error", err)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"session unavailable"}` + "\n"))
				return
			}

			ctx := context.WithValue(r.Context(), workspaceKey, ws)
			ctx = context.WithValue(ctx, sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))

			if err := mgr.Persist(context.WithoutCancel(r.Context()), id, ws); err != nil {
				slog.Warn("session persist failed", "error", err)
			}
		})
	}
}

// WorkspaceFromContext returns the workspace loaded by LoadSession.
func WorkspaceFromContext(ctx context.Context) *workspace.Workspace {
	ws, _ := ctx.Value(workspaceKey).(*workspace.Workspace)
	return ws
}

// SessionIDFromContext returns the session ID loaded by LoadSession.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
