// Package history persists an append-only audit trail of provisioning
// runs in a local SQLite database. The trail is for operators reading
// back what a run did; idempotency decisions are always made against
// the live tracker, never against this store.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"

	"github.com/lct-labs/jiraseed/pkg/catalog"
	"github.com/lct-labs/jiraseed/pkg/engine"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run is one recorded invocation.
type Run struct {
	ID          string
	Mode        string
	Phases      string
	DryRun      bool
	StartedAt   time.Time
	CompletedAt *time.Time
	Created     int
	Skipped     int
	Updated     int
	Deleted     int
	Failed      int
}

// Store is the SQLite-backed run history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store for the database at path. Call Init before
// use.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history database path is required")
	}
	return &Store{path: path}, nil
}

// Init opens the database and applies the schema.
func (s *Store) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s.db = db

	return s.migrate()
}

func (s *Store) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun writes the run row and its entity results in one
// transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, results []engine.EntityResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, mode, phases, dry_run, started_at, completed_at,
		                  created, skipped, updated, deleted, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Mode, run.Phases, run.DryRun,
		run.StartedAt, run.CompletedAt,
		run.Created, run.Skipped, run.Updated, run.Deleted, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, res := range results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO entity_results (run_id, entity_type, name, project_key, entity_id, outcome, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID, string(res.Type), res.Name, res.ProjectKey,
			string(res.ID), string(res.Outcome), res.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entity result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, phases, dry_run, started_at, completed_at,
		       created, skipped, updated, deleted, failed
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		err := rows.Scan(
			&r.ID, &r.Mode, &r.Phases, &r.DryRun, &r.StartedAt, &r.CompletedAt,
			&r.Created, &r.Skipped, &r.Updated, &r.Deleted, &r.Failed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns the entity results recorded for one run.
func (s *Store) RunResults(ctx context.Context, runID string) ([]engine.EntityResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entity_type, name, project_key, entity_id, outcome, reason
		FROM entity_results
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity results: %w", err)
	}
	defer rows.Close()

	var results []engine.EntityResult
	for rows.Next() {
		var res engine.EntityResult
		var entityType, entityID, outcome string
		err := rows.Scan(&entityType, &res.Name, &res.ProjectKey, &entityID, &outcome, &res.Reason)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity result: %w", err)
		}
		res.Type = catalog.EntityType(entityType)
		res.ID = engine.Identifier(entityID)
		res.Outcome = engine.Outcome(outcome)
		results = append(results, res)
	}
	return results, rows.Err()
}
