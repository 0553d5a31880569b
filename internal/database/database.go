// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database handles SQL connection management and migration
// execution using goose. PostgreSQL (through pgx) and SQLite (through the
// pure-Go modernc driver) share one set of embedded migrations.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var embedMigrations embed.FS

// Dialect names a supported SQL database.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// driverName returns the database/sql driver registered for the dialect.
func (d Dialect) driverName() (string, error) {
	switch d {
	case Postgres:
		return "pgx", nil
	case SQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("database: unsupported dialect %q", d)
}

// gooseDialect maps to the dialect names goose understands.
func (d Dialect) gooseDialect() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Connect opens a connection pool for the dialect and verifies it with a
// ping. SQLite pools are limited to one connection since the database is
// a single file with one writer.
func Connect(dialect Dialect, dsn string) (*sql.DB, error) {
	driver, err := dialect.driverName()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "dialect", dialect)
	return db, nil
}

// SQLiteDSN builds a modernc DSN for a database file with WAL journaling
// and a busy timeout.
func SQLiteDSN(path string) string {
	return path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
}

// Migrate runs all pending goose migrations from the embedded SQL files.
func Migrate(db *sql.DB, dialect Dialect) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect.gooseDialect()); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied", "dialect", dialect)
	return nil
}
