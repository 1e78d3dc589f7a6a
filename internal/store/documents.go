package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Document keys. Each names one independently persisted JSON document.
const (
	KeyTasks    = "focusflow_tasks"
	KeySessions = "focusflow_sessions"
	KeySettings = "focusflow_settings"
)

// GetDocument returns the raw JSON stored under key. ok is false when the key
// has never been written.
func (s *Store) GetDocument(key string) (data []byte, ok bool, err error) {
	var value string
	err = s.db.QueryRow(`SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// PutDocument replaces the document under key with the JSON encoding of v.
func (s *Store) PutDocument(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal document %q: %w", key, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("put document %q: %w", key, err)
	}
	return nil
}

// loadDocument decodes the document under key into v. It reports false when
// the document is missing or malformed; malformed data is logged and left in
// place until the next write replaces it.
func (s *Store) loadDocument(key string, v any) (bool, error) {
	data, ok, err := s.GetDocument(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("malformed document, using default", "key", key, "err", err)
		return false, nil
	}
	return true, nil
}
