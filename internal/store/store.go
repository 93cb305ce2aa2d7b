// Package store persists the navigation graph and computed routes in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConstraintViolation is returned when a write breaks a table constraint.
	ErrConstraintViolation = errors.New("store: constraint violation")
)

// Store is a sqlite database holding the graph and route tables.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		`CREATE TABLE IF NOT EXISTS routing_nodes (
			uid INTEGER NOT NULL PRIMARY KEY,
			x REAL NOT NULL,
			z REAL NOT NULL,
			prefab TEXT NOT NULL,
			hidden INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS macro_edges (
			from_uid INTEGER NOT NULL REFERENCES routing_nodes(uid) ON DELETE CASCADE,
			to_uid INTEGER NOT NULL,
			weight REAL NOT NULL,
			kind TEXT NOT NULL,
			items TEXT NOT NULL,
			PRIMARY KEY (from_uid, to_uid)
		);`,
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT NOT NULL PRIMARY KEY,
			start_uid INTEGER NOT NULL,
			end_uid INTEGER NOT NULL,
			found INTEGER NOT NULL,
			weight REAL NOT NULL,
			fingerprint TEXT NOT NULL,
			result TEXT NOT NULL,
			created INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS routes_ends ON routes(start_uid, end_uid);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return wrapDBError(err)
		}
	}

	return nil
}

// Counts returns the number of rows in the graph and route tables.
func (s *Store) Counts(ctx context.Context) (nodes, edges, routes int, err error) {
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"routing_nodes", &nodes},
		{"macro_edges", &edges},
		{"routes", &routes},
	} {
		row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+q.table)
		if err = row.Scan(q.dst); err != nil {
			return 0, 0, 0, wrapDBError(err)
		}
	}

	return nodes, edges, routes, nil
}

// dbUID maps a uid onto the signed sqlite integer range, bit for bit.
func dbUID(uid uint64) int64 { return int64(uid) }

func fromDBUID(v int64) uint64 { return uint64(v) }

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code() & 0xff
		if code == 19 {
			return fmt.Errorf("%w: %s", ErrConstraintViolation, sqliteErr.Error())
		}
		return fmt.Errorf("sqlite %s: %w", sqlite.ErrorCodeString[code], err)
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	return err
}
