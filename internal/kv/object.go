// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"fashiontechx/internal/storage"
)

// ObjectStore is the subset of the S3 client used by the object backend.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// Object stores each key as one JSON object in an S3-compatible bucket.
type Object struct {
	store  ObjectStore
	bucket string
	prefix string
}

// NewObject returns a backend writing objects to bucket under prefix
// (e.g., "fashiontechx/").
func NewObject(store ObjectStore, bucket, prefix string) *Object {
	return &Object{store: store, bucket: bucket, prefix: prefix}
}

func (o *Object) Name() string { return "s3" }

// Get downloads the object for key.
func (o *Object) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := o.store.Download(ctx, o.bucket, o.prefix+key+".json")
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv s3 get %s: %w", key, err)
	}
	return data, nil
}

// Put uploads value as the object for key.
func (o *Object) Put(ctx context.Context, key string, value []byte) error {
	err := o.store.Upload(ctx, o.bucket, o.prefix+key+".json", "application/json",
		bytes.NewReader(value), int64(len(value)))
	if err != nil {
		return fmt.Errorf("kv s3 put %s: %w", key, err)
	}
	return nil
}
