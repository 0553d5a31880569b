// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fashiontechx/internal/database"
)

// SQL stores values in the kv_records table created by the database
// migrations. It works against PostgreSQL (pgx) and SQLite (modernc).
type SQL struct {
	db      *sql.DB
	dialect database.Dialect
	get     string
	put     string
}

// NewSQL returns a backend over an already-migrated database.
func NewSQL(db *sql.DB, dialect database.Dialect) *SQL {
	p1, p2 := "$1", "$2"
	if dialect == database.SQLite {
		p1, p2 = "?", "?"
	}
	return &SQL{
		db:      db,
		dialect: dialect,
		get:     `SELECT record_value FROM kv_records WHERE record_key = ` + p1,
		put: `INSERT INTO kv_records (record_key, record_value, updated_at)
		      VALUES (` + p1 + `, ` + p2 + `, CURRENT_TIMESTAMP)
		      ON CONFLICT (record_key) DO UPDATE
		      SET record_value = excluded.record_value, updated_at = CURRENT_TIMESTAMP`,
	}
}

func (s *SQL) Name() string { return string(s.dialect) }

// Get selects the value for key.
func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv %s get %s: %w", s.dialect, key, err)
	}
	return []byte(value), nil
}

// Put upserts the value for key.
func (s *SQL) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.put, key, string(value)); err != nil {
		return fmt.Errorf("kv %s put %s: %w", s.dialect, key, err)
	}
	return nil
}
