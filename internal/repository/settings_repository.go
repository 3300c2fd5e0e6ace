package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SettingsRepository provides data access methods for the setting table,
// a simple key-value store for tracker settings.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key.
// Returns ok=false when the key has never been stored.
func (r *SettingsRepository) GetSetting(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM setting WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query setting table: %w", err)
	}
	return value, true, nil
}

// SetSetting stores a setting value, replacing any existing value for the key.
func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO setting (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value
    `

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}

	return nil
}
