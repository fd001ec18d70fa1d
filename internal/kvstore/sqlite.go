package kvstore

import (
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLite is a Store backed by a single-table SQLite database.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(dataSourceName string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		slog.Error("Error creating kv schema", "error", err)
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			slog.Error("Failed to read key", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

// Set is best-effort: a write failure is logged and swallowed so that a full
// disk or locked database never takes down the request that triggered it.
func (s *SQLite) Set(key, value string) {
	query := `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.Exec(query, key, value); err != nil {
		slog.Error("Failed to persist key", "key", key, "error", err)
	}
}

func (s *SQLite) Remove(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		slog.Error("Failed to remove key", "key", key, "error", err)
	}
}
