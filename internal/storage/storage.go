package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SessionKey is the fixed key holding the current session id. Absence means
// "no session".
const SessionKey = "bearai.session"

const schema = `
CREATE TABLE IF NOT EXISTS bridge_kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS activity_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	command     TEXT NOT NULL,
	status      TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_log(created_at);
`

// Store wraps the local SQLite file backing session persistence and the
// activity history view.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set upserts a key-value pair.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO bridge_kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("kv set failed: %w", err)
	}
	return nil
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM bridge_kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get failed: %w", err)
	}
	return value, true, nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM bridge_kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kv delete failed: %w", err)
	}
	return nil
}

// ActivityEntry is one recorded command dispatch.
type ActivityEntry struct {
	ID         int64     `json:"id"`
	Command    string    `json:"command"`
	Status     string    `json:"status"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RecordActivity appends a dispatch record to the activity log.
func (s *Store) RecordActivity(command, status string, duration time.Duration) error {
	_, err := s.db.Exec(
		`INSERT INTO activity_log (command, status, duration_ms, created_at) VALUES (?, ?, ?, ?)`,
		command, status, duration.Milliseconds(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("activity insert failed: %w", err)
	}
	return nil
}

// RecentActivity returns up to limit entries, newest first.
func (s *Store) RecentActivity(limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, command, status, duration_ms, created_at
		 FROM activity_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("activity query failed: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var entry ActivityEntry
		if err := rows.Scan(&entry.ID, &entry.Command, &entry.Status, &entry.DurationMs, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("activity scan failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity rows iteration error: %w", err)
	}

	return entries, nil
}

// ActivityCounts reports total and failed dispatch counts.
func (s *Store) ActivityCounts() (total int64, failed int64, err error) {
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status != 'ok' THEN 1 ELSE 0 END), 0) FROM activity_log`,
	).Scan(&total, &failed)
	if err != nil {
		return 0, 0, fmt.Errorf("activity count failed: %w", err)
	}
	return total, failed, nil
}
