// Package store persists users, courses, attendances and images in Postgres.
// Embedded collections (rosters, per-session marks, declared universities)
// are stored as JSONB.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store wraps sql.DB for Postgres using pgx.
type Store struct {
	db *sql.DB
}

// New creates a Postgres-backed store and ensures the schema exists.
func New(ctx context.Context, connString string) (*Store, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		universities  JSONB NOT NULL DEFAULT '[]',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS courses (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		university  TEXT NOT NULL,
		user_id     TEXT NOT NULL REFERENCES users(id),
		day_of_week TEXT NOT NULL DEFAULT '',
		start_time  TEXT NOT NULL DEFAULT '',
		end_time    TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		students    JSONB NOT NULL DEFAULT '[]',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS images (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
		data         BYTEA NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendances (
		id         TEXT PRIMARY KEY,
		course_id  TEXT NOT NULL REFERENCES courses(id),
		date       TIMESTAMPTZ NOT NULL,
		image_id   TEXT REFERENCES images(id),
		status     TEXT NOT NULL DEFAULT 'not_uploaded',
		students   JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_courses_user        ON courses(user_id);
	CREATE INDEX IF NOT EXISTS idx_courses_user_uni    ON courses(user_id, university);
	CREATE INDEX IF NOT EXISTS idx_attendances_course  ON attendances(course_id);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return sql.ErrConnDone
	}
	return s.db.PingContext(ctx)
}

// withTx runs fn inside a transaction, rolling back on error. Multi-record
// deletes (course cascade, university cascade, attendance+image) go through
// here so a partial cascade never commits.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
