// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package kv provides the key-value backends behind the collection store.
// A backend only needs to read and replace whole values by key; the
// collection store keeps everything under a single key.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Backend is a durable (or, for tests, in-memory) key-value store.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Name identifies the backend in logs (e.g., "sqlite", "valkey").
	Name() string
}
