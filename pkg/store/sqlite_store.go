package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	envedit "github.com/goliatone/go-envedit"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS variables (
	scope      TEXT    NOT NULL,
	name       TEXT    NOT NULL COLLATE NOCASE,
	value      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (scope, name)
)`

// SQLiteStore persists variables in a SQLite file. Names compare
// case-insensitively within a scope, like the Windows environment.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens (creating if needed) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store: sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Read implements envedit.Store.
func (s *SQLiteStore) Read(ctx context.Context, ref envedit.Ref) (string, bool, error) {
	if !ref.Scope.Valid() {
		return "", false, ErrInvalidScope
	}
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM variables WHERE scope = ? AND name = ?`,
		ref.Scope.String(), ref.Name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: read %s: %w", ref.Identifier(), err)
	}
	return value, true, nil
}

// Write implements envedit.Store.
func (s *SQLiteStore) Write(ctx context.Context, ref envedit.Ref, value string) error {
	if !ref.Scope.Valid() {
		return ErrInvalidScope
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO variables (scope, name, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		ref.Scope.String(), ref.Name, value, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: write %s: %w", ref.Identifier(), err)
	}
	return nil
}

// Delete implements envedit.Store. Deleting an absent name is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, ref envedit.Ref) error {
	if !ref.Scope.Valid() {
		return ErrInvalidScope
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM variables WHERE scope = ? AND name = ?`,
		ref.Scope.String(), ref.Name,
	); err != nil {
		return fmt.Errorf("store: delete %s: %w", ref.Identifier(), err)
	}
	return nil
}

// Names lists the variable names stored under scope, sorted.
func (s *SQLiteStore) Names(ctx context.Context, scope envedit.Scope) ([]string, error) {
	if !scope.Valid() {
		return nil, ErrInvalidScope
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM variables WHERE scope = ? ORDER BY name`, scope.String())
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", scope, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: list %s: %w", scope, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
