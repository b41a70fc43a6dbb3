// Package runlog records each dataset run in a local SQLite database so the
// status command and the scheduling checks can see when a dataset last
// succeeded, how many rows it wrote, and why it failed.
package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Entry is one recorded dataset run.
type Entry struct {
	ID          string
	Dataset     string
	Status      string // running, complete, failed
	StartedAt   time.Time
	CompletedAt *time.Time
	Rows        int64
	Error       string
}

// Log provides read/write access to the run log database.
type Log struct {
	db *sql.DB
}

// Open opens (creating if needed) the run log at the given path and applies
// the schema.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "runlog: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	dataset      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME,
	rows_written INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset, started_at);
`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "runlog: migrate")
	}

	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Start records the beginning of a dataset run and returns its id.
func (l *Log) Start(ctx context.Context, dataset string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, dataset, status, started_at) VALUES (?, ?, 'running', ?)`,
		id, dataset, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrapf(err, "runlog: start run for %s", dataset)
	}
	return id, nil
}

// Complete marks a run as successfully completed with its row count.
func (l *Log) Complete(ctx context.Context, runID string, rows int64) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE runs SET status = 'complete', completed_at = ?, rows_written = ? WHERE id = ?`,
		time.Now().UTC(), rows, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: complete run %s", runID)
	}
	return nil
}

// Fail marks a run as failed with an error message.
func (l *Log) Fail(ctx context.Context, runID string, errMsg string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE runs SET status = 'failed', completed_at = ?, error = ? WHERE id = ?`,
		time.Now().UTC(), errMsg, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: fail run %s", runID)
	}
	return nil
}

// LastSuccess returns the start time of the most recent completed run for a
// dataset, or nil if it has never completed.
func (l *Log) LastSuccess(ctx context.Context, dataset string) (*time.Time, error) {
	var t time.Time
	err := l.db.QueryRowContext(ctx,
		`SELECT started_at FROM runs
		 WHERE dataset = ? AND status = 'complete'
		 ORDER BY started_at DESC LIMIT 1`,
		dataset,
	).Scan(&t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "runlog: last success for %s", dataset)
	}
	return &t, nil
}

// Recent returns the most recent runs, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, dataset, status, started_at, completed_at, rows_written, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list recent")
	}
	defer rows.Close() //nolint:errcheck

	var entries []Entry
	for rows.Next() {
		var e Entry
		var completed sql.NullTime
		if err := rows.Scan(&e.ID, &e.Dataset, &e.Status, &e.StartedAt, &completed, &e.Rows, &e.Error); err != nil {
			return nil, eris.Wrap(err, "runlog: scan entry")
		}
		if completed.Valid {
			t := completed.Time
			e.CompletedAt = &t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "runlog: iterate entries")
	}
	return entries, nil
}
