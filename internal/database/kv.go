package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVRepository stores named serialized records. Each dashboard record (the
// user, the auth token, the watchlist) lives under a fixed string key and is
// rewritten wholesale on every mutation.
type KVRepository struct {
	conn *sql.DB
}

// NewKVRepository creates a repository backed by the given connection.
func NewKVRepository(conn *sql.DB) *KVRepository {
	return &KVRepository{conn: conn}
}

// Get returns the value stored under key. The second return reports whether
// the key was present at all.
func (r *KVRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.conn.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (r *KVRepository) Set(key, value string) error {
	_, err := r.conn.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *KVRepository) Delete(key string) error {
	if _, err := r.conn.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
