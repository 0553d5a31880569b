// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces store keys in Valkey, next to the session keys.
const keyPrefix = "store:"

// Valkey keeps values as plain strings in a Valkey (Redis-compatible)
// server, without expiry.
type Valkey struct {
	client *redis.Client
}

// NewValkey wraps a connected client (see cache.ConnectValkey).
func NewValkey(client *redis.Client) *Valkey {
	return &Valkey{client: client}
}

func (v *Valkey) Name() string { return "valkey" }

// Get reads the value for key.
func (v *Valkey) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := v.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv valkey get %s: %w", key, err)
	}
	return data, nil
}

// Put writes the value for key with no TTL.
func (v *Valkey) Put(ctx context.Context, key string, value []byte) error {
	if err := v.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv valkey put %s: %w", key, err)
	}
	return nil
}
