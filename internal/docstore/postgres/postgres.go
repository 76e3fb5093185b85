// Copyright (c) 2025 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package postgres implements docstore.Store on a single JSONB table. Each
// document row carries its full path plus its collection, and every mutation
// is one UPDATE, which gives the per-document atomicity the coordinators
// rely on.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/blocksocial/api/internal/docstore"
)

// Config holds the PostgreSQL connection settings.
type Config struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store is the sqlx-backed document store.
type Store struct {
	db *sqlx.DB
}

var _ docstore.Store = (*Store)(nil)

// New connects to PostgreSQL and ensures the documents table exists.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	connStr := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
	if cfg.Username != "" {
		connStr += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		connStr += fmt.Sprintf(" password=%s", cfg.Password)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL with sqlx: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	store := &Store{db: db}
	if err := store.initializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initializeSchema creates the documents table and its collection index.
// Production deployments manage this via migrations; the inline DDL is
// idempotent so local runs bootstrap themselves.
func (s *Store) initializeSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			path       TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			fields     JSONB NOT NULL DEFAULT '{}'::jsonb
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_fields ON documents USING GIN (fields)`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE path = $1)`, path).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence of %s: %w", path, err)
	}
	return exists, nil
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE path = $1`, path).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	var doc docstore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return doc, nil
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (path, collection, fields) VALUES ($1, $2, $3)
		 ON CONFLICT (path) DO UPDATE SET fields = EXCLUDED.fields`,
		path, docstore.Collection(path), raw)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE path = $1`, path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, path string, field string, delta int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents
		 SET fields = jsonb_set(fields, ARRAY[$2],
			 to_jsonb(COALESCE((fields->>$2)::numeric, 0) + $3))
		 WHERE path = $1`,
		path, field, delta)
	if err != nil {
		return fmt.Errorf("failed to increment %s on %s: %w", field, path, err)
	}
	return requireRow(res, path)
}

func (s *Store) AddToSet(ctx context.Context, path string, field string, value string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents
		 SET fields = jsonb_set(fields, ARRAY[$2],
			 CASE WHEN COALESCE(fields->$2, '[]'::jsonb) ? $3
				  THEN fields->$2
				  ELSE COALESCE(fields->$2, '[]'::jsonb) || to_jsonb($3::text)
			 END)
		 WHERE path = $1`,
		path, field, value)
	if err != nil {
		return fmt.Errorf("failed to add %q to %s on %s: %w", value, field, path, err)
	}
	return requireRow(res, path)
}

func (s *Store) RemoveFromSet(ctx context.Context, path string, field string, value string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents
		 SET fields = jsonb_set(fields, ARRAY[$2], COALESCE(fields->$2, '[]'::jsonb) - $3)
		 WHERE path = $1`,
		path, field, value)
	if err != nil {
		return fmt.Errorf("failed to remove %q from %s on %s: %w", value, field, path, err)
	}
	return requireRow(res, path)
}

func (s *Store) Add(ctx context.Context, collection string, fields docstore.Document) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate document id: %w", err)
	}
	path := collection + "/" + id.String()
	if err := s.Set(ctx, path, fields); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) QueryOne(ctx context.Context, collection string, filter docstore.Document) (*docstore.Entry, error) {
	entries, err := s.Query(ctx, collection, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, docstore.ErrNotFound
	}
	return &entries[0], nil
}

func (s *Store) Query(ctx context.Context, collection string, filter docstore.Document, limit int) ([]docstore.Entry, error) {
	rawFilter, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query filter: %w", err)
	}

	query := `SELECT path, fields FROM documents
		 WHERE collection = $1 AND fields @> $2 ORDER BY path`
	args := []interface{}{collection, rawFilter}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var entries []docstore.Entry
	for rows.Next() {
		var path string
		var raw []byte
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan query row: %w", err)
		}
		var doc docstore.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		entries = append(entries, docstore.Entry{Path: path, Fields: doc})
	}
	return entries, rows.Err()
}

// requireRow maps a zero-row mutation onto ErrNotFound, matching the
// update-requires-existence semantics of the upstream store.
func requireRow(res sql.Result, path string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for %s: %w", path, err)
	}
	if affected == 0 {
		return docstore.ErrNotFound
	}
	return nil
}
