// Package history keeps a local sqlite ledger of build results, so repeated
// builds can be inspected after the fact without scraping logs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded build.
type Entry struct {
	ID        int64
	BuildID   string
	Started   time.Time
	Finished  time.Time
	Outcome   string
	Documents int
	Rendered  int
	Failed    int
	Skipped   int
}

// Store persists build entries in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the ledger. Use ":memory:" for tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		documents INTEGER NOT NULL,
		rendered INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		skipped INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a finished build.
func (s *Store) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, started, finished, outcome, documents, rendered, failed, skipped) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.BuildID, e.Started.Unix(), e.Finished.Unix(), e.Outcome, e.Documents, e.Rendered, e.Failed, e.Skipped,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// Recent returns the most recent builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, started, finished, outcome, documents, rendered, failed, skipped FROM builds ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started, finished int64
		if err := rows.Scan(&e.ID, &e.BuildID, &started, &finished, &e.Outcome, &e.Documents, &e.Rendered, &e.Failed, &e.Skipped); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		e.Started = time.Unix(started, 0)
		e.Finished = time.Unix(finished, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
