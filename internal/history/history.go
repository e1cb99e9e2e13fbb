// Package history keeps an audit log of discovery runs in sqlite.
//
// Discovery never reads from it: every run starts from scratch. The log only
// lets a user see when results changed.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/discovery"
	_ "modernc.org/sqlite"
)

// Outcome values stored per run
const (
	OutcomeOK        = "ok"
	OutcomeNoToolset = "no_toolset"
	OutcomeInvariant = "invariant_violation"
	OutcomeError     = "error"
)

// DB represents the database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// Run is one recorded discovery run
type Run struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	Outcome     string         `json:"outcome"`
	Found       int            `json:"found"`
	Excluded    int            `json:"excluded"`
	Examined    int            `json:"examined"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	Toolsets    []core.Toolset `json:"toolsets,omitempty"`
}

// New creates a new database instance with separate read/write pools
func New(ctx context.Context, dbPath string) (*DB, error) {
	// Connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetConnMaxIdleTime(time.Minute)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at DATETIME NOT NULL,
    outcome TEXT NOT NULL,
    found INTEGER NOT NULL,
    excluded INTEGER NOT NULL,
    examined INTEGER NOT NULL,
    fingerprint TEXT,
    toolsets TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	if _, err := db.write.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// FromResult summarizes a discovery run for storage
func FromResult(res *discovery.Result, runErr error, startedAt time.Time) (*Run, error) {
	run := &Run{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
		Outcome:   outcomeOf(runErr),
	}

	if res == nil {
		return run, nil
	}

	run.Found = len(res.Found)
	run.Excluded = len(res.Excluded)
	run.Examined = len(res.Examined)
	run.Toolsets = res.Found

	fp, err := discovery.Fingerprint(res)
	if err != nil {
		return nil, err
	}
	run.Fingerprint = fp

	return run, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, core.ErrNoUsableToolset):
		return OutcomeNoToolset
	case core.IsInvariantViolation(err):
		return OutcomeInvariant
	default:
		return OutcomeError
	}
}

// Record stores a run
func (db *DB) Record(ctx context.Context, run *Run) error {
	toolsetsJSON, err := json.Marshal(run.Toolsets)
	if err != nil {
		return fmt.Errorf("marshal toolsets: %w", err)
	}

	query := `
INSERT INTO runs (run_id, started_at, outcome, found, excluded, examined, fingerprint, toolsets)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.write.ExecContext(ctx, query,
		run.RunID,
		run.StartedAt.UTC(),
		run.Outcome,
		run.Found,
		run.Excluded,
		run.Examined,
		run.Fingerprint,
		string(toolsetsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// List returns the most recent runs first; limit <= 0 returns all of them
func (db *DB) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
SELECT run_id, started_at, outcome, found, excluded, examined, fingerprint, toolsets
FROM runs ORDER BY started_at DESC, rowid DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.read.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var fingerprint sql.NullString
		var toolsetsJSON sql.NullString

		if err := rows.Scan(
			&run.RunID,
			&run.StartedAt,
			&run.Outcome,
			&run.Found,
			&run.Excluded,
			&run.Examined,
			&fingerprint,
			&toolsetsJSON,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.Fingerprint = fingerprint.String
		if toolsetsJSON.Valid && toolsetsJSON.String != "" {
			if err := json.Unmarshal([]byte(toolsetsJSON.String), &run.Toolsets); err != nil {
				return nil, fmt.Errorf("unmarshal toolsets: %w", err)
			}
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return runs, nil
}

// Latest returns the most recent run, or nil when none was recorded
func (db *DB) Latest(ctx context.Context) (*Run, error) {
	runs, err := db.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
