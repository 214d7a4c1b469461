package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// SchemaError means the backing table could not be created or verified.
// It is distinct from ErrNotFound: "no table" is a failure, "no row" is a
// valid lookup outcome.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "schema init failed"
	}
	return fmt.Sprintf("schema init failed: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Repository is the sqlite-backed warranty record store. The store file is
// created on first use and persists across process restarts.
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(ctx context.Context, dbPath string, logger *slog.Logger) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	repo := &Repository{db: db, logger: logger}
	if err := repo.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// ensureSchema idempotently creates the warranty table. Every store
// operation runs it first, so a store file removed at runtime self-heals on
// the next call.
func (r *Repository) ensureSchema(ctx context.Context) error {
	statements := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS warranty_records (
			id INTEGER PRIMARY KEY,
			service_tag TEXT NOT NULL,
			end_date TEXT NOT NULL,
			model TEXT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_warranty_records_service_tag
			ON warranty_records(service_tag);`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return &SchemaError{Err: err}
		}
	}
	return nil
}
