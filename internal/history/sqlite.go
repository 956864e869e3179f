package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens or creates the history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryHistory, "failed to create history directory").
				WithContext("path", dbPath).
				Build()
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryHistory, "open sqlite database").Build()
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryHistory, "initialize schema").Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		status TEXT NOT NULL,
		exhibitions INTEGER NOT NULL,
		artworks INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		audit_issues INTEGER NOT NULL,
		error TEXT
	);
	CREATE TABLE IF NOT EXISTS warnings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		type TEXT NOT NULL,
		record_id TEXT,
		exhibition_id TEXT,
		artwork_id TEXT,
		row_number INTEGER,
		message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_warnings_run_id ON warnings(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts the run and its warnings in one transaction.
func (s *SQLiteStore) Record(ctx context.Context, run Run, warnings []catalog.Warning) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = NewRunID()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, started_at, finished_at, status, exhibitions, artworks, pages, warning_count, audit_issues, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.Status,
		run.Exhibitions, run.Artworks, run.Pages, len(warnings), run.AuditIssues, run.Error,
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryHistory, "insert run").WithContext("run_id", run.ID).Build()
	}

	for _, w := range warnings {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO warnings (run_id, type, record_id, exhibition_id, artwork_id, row_number, message) VALUES (?, ?, ?, ?, ?, ?, ?)",
			run.ID, string(w.Type), w.ID, w.ExhibitionID, w.ArtworkID, w.Row, w.Message,
		)
		if err != nil {
			return errors.WrapError(err, errors.CategoryHistory, "insert warning").WithContext("run_id", run.ID).Build()
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapError(err, errors.CategoryHistory, "commit run").WithContext("run_id", run.ID).Build()
	}
	return nil
}

// Recent returns up to limit runs, newest first, with per-type warning counts.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, started_at, finished_at, status, exhibitions, artworks, pages, warning_count, audit_issues, COALESCE(error, '')
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Kind, &started, &finished, &r.Status, &r.Exhibitions, &r.Artworks,
			&r.Pages, &r.WarningCount, &r.AuditIssues, &r.Error); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started).UTC()
		r.FinishedAt = time.UnixMilli(finished).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	_ = rows.Close()

	for i := range runs {
		counts, err := s.warningTypes(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].WarningTypes = counts
	}
	return runs, nil
}

func (s *SQLiteStore) warningTypes(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT type, COUNT(*) FROM warnings WHERE run_id = ? GROUP BY type", runID)
	if err != nil {
		return nil, fmt.Errorf("query warning types: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan warning type: %w", err)
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

// Warnings returns the warnings recorded for runID in insertion order.
func (s *SQLiteStore) Warnings(ctx context.Context, runID string) ([]catalog.Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COALESCE(record_id, ''), COALESCE(exhibition_id, ''), COALESCE(artwork_id, ''), COALESCE(row_number, 0), message
		FROM warnings WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	defer rows.Close()

	var out []catalog.Warning
	for rows.Next() {
		var w catalog.Warning
		var typ string
		if err := rows.Scan(&typ, &w.ID, &w.ExhibitionID, &w.ArtworkID, &w.Row, &w.Message); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		w.Type = catalog.WarningType(typ)
		out = append(out, w)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
