// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fashiontechx/internal/workspace"
)

// keyPrefix namespaces session keys in Valkey to avoid collisions.
const keyPrefix = "session:"

// ValkeyStore keeps workspace snapshots in Valkey as JSON with TTL expiry.
type ValkeyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyStore creates a snapshot store backed by the given Valkey client.
func NewValkeyStore(client *redis.Client, ttl time.Duration) *ValkeyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ValkeyStore{client: client, ttl: ttl}
}

// Get loads a snapshot. Returns ErrNotFound for expired or unknown IDs.
func (s *ValkeyStore) Get(ctx context.Context, id string) (*workspace.Snapshot, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var snap workspace.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &snap, nil
}

// Put stores a snapshot and resets its TTL.
func (s *ValkeyStore) Put(ctx context.Context, id string, snap workspace.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// Delete removes a snapshot.
func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
