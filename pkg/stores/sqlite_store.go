package stores

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

	"github.com/xiaket/vapor/pkg/engine"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps the deployment history in a local SQLite file.
// It implements engine.Recorder.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Config holds SQLite store configuration.
type Config struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns caps the connection pool; the default of 1 is
	// plenty for a single-caller history store.
	MaxOpenConns int
}

// NewSQLiteStore creates a store instance. Open it with Init before
// use.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return &SQLiteStore{path: cfg.Path}, nil
}

// Init opens the database, enables WAL mode and runs migrations.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return s.migrate()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// migrate applies the embedded schema migrations.
func (s *SQLiteStore) migrate() error {
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

// RecordDeployment appends one deployment record to the history.
func (s *SQLiteStore) RecordDeployment(ctx context.Context, rec *engine.DeploymentRecord) error {
	query := `
		INSERT INTO deployments (stack_name, changeset, action, dry_run, succeeded, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.StackName,
		rec.Changeset,
		string(rec.Action),
		rec.DryRun,
		rec.Succeeded,
		rec.Error,
		rec.StartedAt,
		rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record deployment: %w", err)
	}
	return nil
}

// ListDeployments returns the most recent records for a stack, newest
// first. An empty stackName returns records for every stack.
func (s *SQLiteStore) ListDeployments(ctx context.Context, stackName string, limit int) ([]engine.DeploymentRecord, error) {
	query := `
		SELECT stack_name, changeset, action, dry_run, succeeded, error, started_at, finished_at
		FROM deployments
		WHERE (? = '' OR stack_name = ?)
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, stackName, stackName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	defer rows.Close()

	var records []engine.DeploymentRecord
	for rows.Next() {
		var rec engine.DeploymentRecord
		var action string
		if err := rows.Scan(
			&rec.StackName,
			&rec.Changeset,
			&action,
			&rec.DryRun,
			&rec.Succeeded,
			&rec.Error,
			&rec.StartedAt,
			&rec.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deployment: %w", err)
		}
		rec.Action = engine.Action(action)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deployments: %w", err)
	}
	return records, nil
}
