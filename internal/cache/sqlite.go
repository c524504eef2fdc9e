package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (schedules table)
const currentSchemaVersion = 1

// Store is a SQLite-backed ScheduleCache. It survives process restarts,
// so repeated analyses of the same network skip straight to the cached
// schedules.
type Store struct {
	db *sql.DB
}

var _ ScheduleCache = (*Store)(nil)

// Open creates or opens a SQLite cache at the given path.
// Applies required pragmas and migrations automatically; idempotent.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (derived data tolerates a torn tail)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to schedule cache: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY surprises.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get looks up the schedule cached for a module of a fingerprinted
// network. A missing row is a miss, not an error.
func (s *Store) Get(ctx context.Context, network, module string) (Record, bool, error) {
	var (
		period int64
		events string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT period, events FROM schedules
		WHERE network = ? AND module = ?
	`, network, module).Scan(&period, &events)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read schedule %s/%s: %w", network, module, err)
	}

	rec := Record{Period: period}
	if err := json.Unmarshal([]byte(events), &rec.Events); err != nil {
		return Record{}, false, fmt.Errorf("decode schedule %s/%s: %w", network, module, err)
	}
	return rec, true, nil
}

// Put stores a computed schedule.
// Uses ON CONFLICT DO NOTHING for idempotency: schedules are
// deterministic per key, so a duplicate write carries the same data.
func (s *Store) Put(ctx context.Context, network, module string, rec Record) error {
	events, err := json.Marshal(rec.Events)
	if err != nil {
		return fmt.Errorf("encode schedule %s/%s: %w", network, module, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedules (network, module, period, events)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(network, module) DO NOTHING
	`, network, module, rec.Period, string(events))
	if err != nil {
		return fmt.Errorf("write schedule %s/%s: %w", network, module, err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on
// user_version. New migrations slot in above the version stamp.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version > currentSchemaVersion {
		return fmt.Errorf("schedule cache is from a newer version (schema %d, supported %d)",
			version, currentSchemaVersion)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}
