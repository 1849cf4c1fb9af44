package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/wordnet/pkg/models"
)

const (
	// DriverSQLite is the mattn/go-sqlite3 driver name.
	DriverSQLite = "sqlite3"
	// DriverPostgres is the lib/pq driver name.
	DriverPostgres = "postgres"
)

// Connect opens the database and creates missing tables.
// For SQLite, dsn is a file path; its directory is created if needed.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if dir := filepath.Dir(strings.SplitN(dsn, "?", 2)[0]); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverSQLite && !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers, and the pragma below is per connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := initializeSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS words (
			word TEXT PRIMARY KEY,
			meaning TEXT NOT NULL DEFAULT '',
			morphemes TEXT NOT NULL DEFAULT '[]',
			memory_strength DOUBLE PRECISION NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			last_reviewed_at BIGINT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create words table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS review_queue (
			word_id TEXT PRIMARY KEY REFERENCES words(word) ON DELETE CASCADE,
			next_review_time BIGINT NOT NULL,
			interval_days INTEGER NOT NULL DEFAULT 1,
			easiness_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
			repetition_count INTEGER NOT NULL DEFAULT 0,
			review_state INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_queue table: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_review_queue_due ON review_queue(next_review_time)`)
	if err != nil {
		return fmt.Errorf("failed to create review_queue index: %w", err)
	}
	return nil
}

// storeErr wraps a driver error as a StoreError.
func storeErr(op string, err error) error {
	return &models.StoreError{Op: op, Err: err}
}
