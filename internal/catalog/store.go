// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a SQLite record of every object the dumper writes,
// merges into, or skips on a merge conflict.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/datahandler/pkg/types"
)

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path and creates the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS dumps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			export TEXT NOT NULL,
			chunk TEXT NOT NULL,
			object TEXT NOT NULL,
			mode TEXT NOT NULL,
			outcome TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			written_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dumps_export ON dumps(export)`,
		`CREATE INDEX IF NOT EXISTS idx_dumps_object ON dumps(object)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one entry.
func (s *Store) Record(ctx context.Context, rec types.DumpRecord) error {
	if rec.WrittenAt.IsZero() {
		rec.WrittenAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dumps (export, chunk, object, mode, outcome, row_count, written_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Export, rec.Chunk, rec.Object, string(rec.Mode), string(rec.Outcome),
		rec.Rows, rec.WrittenAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting catalog entry: %w", err)
	}
	return nil
}

// List returns entries in insertion order. A non-empty export limits the
// result to that export.
func (s *Store) List(ctx context.Context, export string) ([]types.DumpRecord, error) {
	query := `SELECT export, chunk, object, mode, outcome, row_count, written_at FROM dumps`
	var args []any
	if export != "" {
		query += ` WHERE export = ?`
		args = append(args, export)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var recs []types.DumpRecord
	for rows.Next() {
		var (
			rec               types.DumpRecord
			mode, outcome, ts string
		)
		if err := rows.Scan(&rec.Export, &rec.Chunk, &rec.Object, &mode, &outcome, &rec.Rows, &ts); err != nil {
			return nil, fmt.Errorf("scanning catalog entry: %w", err)
		}
		rec.Mode = types.DumpMode(mode)
		rec.Outcome = types.DumpOutcome(outcome)
		rec.WrittenAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing written_at %q: %w", ts, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
