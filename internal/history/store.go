package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    target       TEXT NOT NULL,
    delay_ms     REAL NOT NULL,
    growth       REAL NOT NULL,
    synced       INTEGER NOT NULL,
    skipped      INTEGER NOT NULL,
    confirmed    INTEGER NOT NULL,
    started_at   TEXT NOT NULL,
    finished_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_documents (
    run_id   TEXT NOT NULL REFERENCES runs(id),
    path     TEXT NOT NULL,
    outcome  TEXT NOT NULL,
    detail   TEXT
);

CREATE INDEX IF NOT EXISTS idx_run_documents_run ON run_documents(run_id);
`

// Run is one journal row describing a whole batch invocation.
type Run struct {
	ID         string
	Target     string
	DelayMs    float64
	Growth     float64
	Synced     int
	Skipped    int
	Confirmed  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// DocumentOutcome records one document's fate within a run.
type DocumentOutcome struct {
	RunID   string
	Path    string
	Outcome string // "synced" or "skipped"
	Detail  string // failure reason for skipped documents
}

// Store persists the journal, backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts a completed run and its per-document outcomes in one
// transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, docs []DocumentOutcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (id, target, delay_ms, growth, synced, skipped, confirmed, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Target,
		run.DelayMs,
		run.Growth,
		run.Synced,
		run.Skipped,
		boolInt(run.Confirmed),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for _, doc := range docs {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_documents (run_id, path, outcome, detail) VALUES (?, ?, ?, ?)`,
			run.ID,
			doc.Path,
			doc.Outcome,
			nullableString(doc.Detail),
		)
		if err != nil {
			return fmt.Errorf("insert document outcome for %s: %w", doc.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal tx: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// below returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, target, delay_ms, growth, synced, skipped, confirmed, started_at, finished_at
              FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var confirmed int
		var started, finished string
		if err := rows.Scan(&run.ID, &run.Target, &run.DelayMs, &run.Growth, &run.Synced, &run.Skipped, &confirmed, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Confirmed = confirmed != 0
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finished, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListDocuments returns the per-document outcomes of one run.
func (s *Store) ListDocuments(ctx context.Context, runID string) ([]DocumentOutcome, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, path, outcome, COALESCE(detail, '') FROM run_documents WHERE run_id = ?`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents for run %s: %w", runID, err)
	}
	defer rows.Close()

	var docs []DocumentOutcome
	for rows.Next() {
		var doc DocumentOutcome
		if err := rows.Scan(&doc.RunID, &doc.Path, &doc.Outcome, &doc.Detail); err != nil {
			return nil, fmt.Errorf("scan document outcome: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
