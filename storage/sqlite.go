// Package storage keeps the run history in SQLite through the pure-Go
// modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Run outcomes.
const (
	OutcomeDeath    = "death"
	OutcomeComplete = "complete"
)

type Store struct {
	db *sql.DB
}

// Run is one life of the runner: it either died or reached the goal.
type Run struct {
	ID        int64
	Level     string
	Outcome   string
	Elapsed   float64
	Jumps     int
	CreatedAt time.Time
}

// Open creates or opens the database at path, creating parent directories
// and running migrations. A leading ~ expands to the home directory.
func Open(path string) (*Store, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			outcome TEXT NOT NULL,
			elapsed REAL NOT NULL DEFAULT 0,
			jumps INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level, outcome, elapsed);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun stores r and returns its ID. A zero CreatedAt is set to now.
func (s *Store) RecordRun(r Run) (int64, error) {
	if r.Level == "" {
		return 0, errors.New("storage: run has no level")
	}
	if r.Outcome != OutcomeDeath && r.Outcome != OutcomeComplete {
		return 0, fmt.Errorf("storage: unknown outcome %q", r.Outcome)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	result, err := s.db.Exec(
		"INSERT INTO runs (level, outcome, elapsed, jumps, created_at) VALUES (?, ?, ?, ?, ?)",
		r.Level, r.Outcome, r.Elapsed, r.Jumps, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: save run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns returns up to limit runs, newest first. An empty level lists
// every level.
func (s *Store) RecentRuns(level string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, level, outcome, elapsed, jumps, created_at
		 FROM runs
		 WHERE ? = '' OR level = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		level, level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &r.Level, &r.Outcome, &r.Elapsed, &r.Jumps, &created); err != nil {
			return nil, fmt.Errorf("storage: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(0, created)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration: %w", err)
	}
	return runs, nil
}

// BestTime returns the fastest completion of level. ok is false when the
// level was never completed.
func (s *Store) BestTime(level string) (best float64, ok bool, err error) {
	var v sql.NullFloat64
	err = s.db.QueryRow(
		"SELECT MIN(elapsed) FROM runs WHERE level = ? AND outcome = ?",
		level, OutcomeComplete,
	).Scan(&v)
	if err != nil {
		return 0, false, fmt.Errorf("storage: query best time: %w", err)
	}
	return v.Float64, v.Valid, nil
}

// Deaths counts the recorded deaths on level.
func (s *Store) Deaths(level string) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM runs WHERE level = ? AND outcome = ?",
		level, OutcomeDeath,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: count deaths: %w", err)
	}
	return n, nil
}
