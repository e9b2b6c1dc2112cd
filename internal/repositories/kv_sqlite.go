package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteKeyValueRepository implements KeyValueRepository on a single SQLite table
type SQLiteKeyValueRepository struct {
	db *sql.DB
}

// NewSQLiteKeyValueRepository creates the kv table if needed and returns the repository
func NewSQLiteKeyValueRepository(db *sql.DB) (*SQLiteKeyValueRepository, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteKeyValueRepository{db: db}, nil
}

func (r *SQLiteKeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *SQLiteKeyValueRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	return err
}
