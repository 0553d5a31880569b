// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session gives every browser its own workspace. Sessions are
// identified by a random cookie; live workspaces are held in an in-process
// cache with TTL expiry, and snapshots can be written through to Valkey so
// they survive a restart.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"fashiontechx/internal/workspace"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ftx_session"

	// DefaultTTL is how long an untouched session lives.
	DefaultTTL = 24 * time.Hour

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// ErrNotFound is returned by a Backing store for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Backing persists workspace snapshots outside the process.
type Backing interface {
	Get(ctx context.Context, id string) (*workspace.Snapshot, error)
	Put(ctx context.Context, id string, s workspace.Snapshot) error
	Delete(ctx context.Context, id string) error
}

// Manager hands out workspaces by session cookie.
type Manager struct {
	live    *cache.Cache
	backing Backing
	ttl     time.Duration
	secure  bool
}

// NewManager creates a session manager. backing may be nil, in which case
// sessions only live in memory. secure sets the Secure flag on cookies.
func NewManager(backing Backing, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		live:    cache.New(ttl, ttl/4),
		backing: backing,
		ttl:     ttl,
		secure:  secure,
	}
}

// Workspace returns the workspace for the request's session, creating a
// session (and setting its cookie) when the request has none.
func (m *Manager) Workspace(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, *workspace.Workspace, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if ws := m.lookup(ctx, cookie.Value); ws != nil {
			return cookie.Value, ws, nil
		}
	}

	id, err := generateID()
	if err != nil {
		return "", nil, fmt.Errorf("session create: %w", err)
	}
	ws := workspace.New()
	m.live.Set(id, ws, m.ttl)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})

	return id, ws, nil
}

func (m *Manager) lookup(ctx context.Context, id string) *workspace.Workspace {
	if v, ok := m.live.Get(id); ok {
		return v.(*workspace.Workspace)
	}
	if m.backing == nil {
		return nil
	}

	snap, err := m.backing.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("session restore failed", "error", err)
		}
		return nil
	}

	ws := workspace.Restore(*snap)
	// Another request may have restored the same session meanwhile.
	if err := m.live.Add(id, ws, m.ttl); err != nil {
		if v, ok := m.live.Get(id); ok {
			return v.(*workspace.Workspace)
		}
	}
	return ws
}

// Persist refreshes the session TTL and writes the workspace snapshot to
// the backing store, if any.
func (m *Manager) Persist(ctx context.Context, id string, ws *workspace.Workspace) error {
	m.live.Set(id, ws, m.ttl)
	if m.backing == nil {
		return nil
	}
	if err := m.backing.Put(ctx, id, ws.Snapshot()); err != nil {
		return fmt.Errorf("session persist: %w", err)
	}
	return nil
}

// Destroy removes the session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	m.live.Delete(cookie.Value)
	if m.backing != nil {
		if err := m.backing.Delete(ctx, cookie.Value); err != nil {
			return fmt.Errorf("session destroy: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.live.ItemCount()
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
