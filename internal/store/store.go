// Package store persists tasks, the timer slot, the event ledgers and
// todo days in SQLite. It implements every capability interface in
// internal/core.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pomodo/internal/core"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

var _ core.Repository = (*Store)(nil)

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS lanes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL UNIQUE,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	INSERT OR IGNORE INTO lanes (id, name) VALUES (1, 'backlog'), (2, 'todo');

	CREATE TABLE IF NOT EXISTS priorities (
		id          INTEGER PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	INSERT OR IGNORE INTO priorities (id, name) VALUES (0, 'n'), (1, 'l'), (2, 'm'), (3, 'h');

	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		lane_id     INTEGER NOT NULL REFERENCES lanes(id),
		priority    INTEGER NOT NULL REFERENCES priorities(id),
		summary     TEXT NOT NULL,
		estimate    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS timer (
		id           INTEGER PRIMARY KEY CHECK (id = 0),
		kind         INTEGER NOT NULL,
		label        TEXT NOT NULL,
		started_at   TEXT NOT NULL,
		duration_min INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS timer_task (
		timer_id  INTEGER NOT NULL REFERENCES timer(id),
		task_id   INTEGER NOT NULL REFERENCES tasks(id)
	);

	CREATE TABLE IF NOT EXISTS pomodoros (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id      INTEGER NOT NULL REFERENCES tasks(id),
		started_at   TEXT NOT NULL,
		finished_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pomodoros_task    ON pomodoros(task_id);
	CREATE INDEX IF NOT EXISTS idx_pomodoros_started ON pomodoros(started_at);

	CREATE TABLE IF NOT EXISTS interruptions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id     INTEGER NOT NULL REFERENCES tasks(id),
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_interruptions_created ON interruptions(created_at);

	CREATE TABLE IF NOT EXISTS todos (
		date        TEXT PRIMARY KEY,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS todo_tasks (
		date        TEXT NOT NULL REFERENCES todos(date),
		task_id     INTEGER NOT NULL REFERENCES tasks(id),
		todo_order  INTEGER NOT NULL,
		PRIMARY KEY (date, task_id)
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/pomodo/pomodo.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pomodo", "pomodo.db"), nil
}

// Timestamps are stored as RFC3339 UTC text. Fixed-width UTC strings
// compare lexicographically, which range queries rely on.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
