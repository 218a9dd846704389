package store

import (
	"database/sql"
	"fmt"
)

// SettingsStore is a small key-value preference store for collaborator-layer
// session state. The core queries never read it.
type SettingsStore struct {
	db     *sql.DB
	notify *Notifier
}

func NewSettingsStore(db *sql.DB, notify *Notifier) *SettingsStore {
	return &SettingsStore{db: db, notify: notify}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) GetAll() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("get all settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, toMillis(now()),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}

	s.notify.Publish(Change{Table: TableSettings, Action: ActionUpdate, ID: key})
	return nil
}

func (s *SettingsStore) Delete(key string) error {
	result, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.notify.Publish(Change{Table: TableSettings, Action: ActionDelete, ID: key})
	}
	return nil
}
