package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a batch does not exist.
var ErrNotFound = errors.New("not found")

// connPragmas are applied to the single connection on open.
var connPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// migration moves the schema from version-1 to version.
type migration struct {
	version int
	name    string
	stmt    string
}

// migrations run in order on top of schema.sql; user_version records the
// last one applied.
var migrations = []migration{
	{1, "index matrices by layout", `CREATE INDEX IF NOT EXISTS idx_matrices_matrix_id ON matrices(matrix_id)`},
	{2, "index reports by batch", `CREATE INDEX IF NOT EXISTS idx_reports_batch ON validation_reports(batch_id, id)`},
}

// schemaVersion is the user_version of a fully migrated database.
func schemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Store is the corpus database. The harness is its only client.
type Store struct {
	db *sql.DB
}

// Open creates or opens the corpus database at path, then applies pragmas,
// the base schema and any pending migrations. Opening an up-to-date
// database changes nothing. ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	ctx := context.Background()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// One connection: SQLite has a single writer, and a ":memory:" database
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := setup(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func setup(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	for _, p := range connPragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return migrate(ctx, db)
}

// migrate applies every migration newer than the stored user_version.
func migrate(ctx context.Context, db *sql.DB) error {
	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.ExecContext(ctx, m.stmt); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("migration %d: set user_version: %w", m.version, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// pragma reads a pragma's current value.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return value, nil
}
