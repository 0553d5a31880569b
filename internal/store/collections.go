// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists the collection list as one JSON record in a
// key-value backend. It is the only code that reads or writes that record.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"fashiontechx/internal/kv"
	"fashiontechx/internal/models"
)

// CollectionsKey is the fixed key holding the JSON array of collections.
const CollectionsKey = "fashiontechx_collections"

// CollectionStore reads and writes the full collection list.
type CollectionStore struct {
	backend kv.Backend
	key     string
}

// NewCollectionStore creates a store over the given backend.
func NewCollectionStore(backend kv.Backend) *CollectionStore {
	return &CollectionStore{backend: backend, key: CollectionsKey}
}

// Backend returns the name of the underlying backend.
func (s *CollectionStore) Backend() string {
	return s.backend.Name()
}

// Load returns the stored collections. A missing, empty or corrupt record
// yields an empty list; only backend I/O failures are returned as errors.
func (s *CollectionStore) Load(ctx context.Context) ([]models.Collection, error) {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []models.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Collection{}, nil
	}

	var collections []models.Collection
	if err := json.Unmarshal(data, &collections); err != nil {
		slog.Warn("collection record is corrupt, treating as empty",
			"backend", s.backend.Name(),
			"key", s.key,
			"error", err,
		)
		return []models.Collection{}, nil
	}

	if collections == nil {
		collections = []models.Collection{}
	}
	for i := range collections {
		if collections[i].Looks == nil {
			collections[i].Looks = []models.Look{}
		}
	}
	return collections, nil
}

// Save replaces the stored record with collections.
func (s *CollectionStore) Save(ctx context.Context, collections []models.Collection) error {
	if collections == nil {
		collections = []models.Collection{}
	}
	data, err := json.Marshal(collections)
	if err != nil {
		return fmt.Errorf("marshal collections: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save collections: %w", err)
	}
	return nil
}
