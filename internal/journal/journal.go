// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records batch runs and per-job outcomes in a SQLite
// database so past conversions can be listed later. The conversion core
// never touches it; the CLI opens it only when a journal path is configured.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/draphael123/conversions/internal/convert"
	"github.com/draphael123/conversions/pkg/types"
)

// Journal manages the run journal database.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Run summarises one recorded batch run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is open
	Converted  int
	Failed     int
}

// Total returns the number of jobs the run processed.
func (r Run) Total() int {
	return r.Converted + r.Failed
}

// Entry is one recorded job outcome.
type Entry struct {
	JobID     string
	Name      string
	Source    string
	Kind      types.ConversionKind
	Status    types.JobStatus
	Output    string
	Bytes     int
	ErrorKind convert.ErrorKind
	Error     string
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	j := &Journal{db: db, now: time.Now}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			converted INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			job_id TEXT NOT NULL,
			name TEXT NOT NULL,
			source TEXT,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			output TEXT,
			bytes INTEGER NOT NULL DEFAULT 0,
			error_kind TEXT,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_run_id ON jobs(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun opens a new run and returns its ID.
func (j *Journal) BeginRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		id, formatTime(j.now()),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// RecordJob stores the outcome of a processed job under runID.
func (j *Journal) RecordJob(ctx context.Context, runID string, job *types.Job) error {
	var output string
	var size int
	if job.Artifact != nil {
		output = job.Artifact.Name
		size = job.Artifact.Size()
	}
	var errKind, errMsg string
	if job.Err != nil {
		errKind = string(convert.KindOf(job.Err))
		errMsg = job.Err.Error()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO jobs (run_id, job_id, name, source, kind, status, output, bytes, error_kind, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, job.ID, job.Name, job.Source, string(job.Kind), string(job.Status),
		output, size, errKind, errMsg,
	)
	if err != nil {
		return fmt.Errorf("inserting job %s: %w", job.Name, err)
	}
	return nil
}

// FinishRun closes runID with the batch counts.
func (j *Journal) FinishRun(ctx context.Context, runID string, result types.BatchResult) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, converted = ?, failed = ? WHERE id = ?`,
		formatTime(j.now()), result.Converted, result.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), converted, failed
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Converted, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if r.FinishedAt, err = parseTime(finished); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Entries returns the jobs recorded for runID in processing order.
func (j *Journal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT job_id, name, COALESCE(source, ''), kind, status, COALESCE(output, ''),
		        bytes, COALESCE(error_kind, ''), COALESCE(error, '')
		 FROM jobs WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind, status, errKind string
		if err := rows.Scan(&e.JobID, &e.Name, &e.Source, &kind, &status, &e.Output,
			&e.Bytes, &errKind, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		e.Kind = types.ConversionKind(kind)
		e.Status = types.JobStatus(status)
		e.ErrorKind = convert.ErrorKind(errKind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Observer returns a convert.Observer that records every processed job
// under runID. Recording errors are passed to onErr when it is non-nil.
func (j *Journal) Observer(ctx context.Context, runID string, onErr func(error)) convert.Observer {
	return func(job *types.Job, _, _ int) {
		if err := j.RecordJob(ctx, runID, job); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// timeLayout has fixed-width fractional seconds so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t, nil
}
