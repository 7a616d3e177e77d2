package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// PostgresBlobStore provides data access methods for the registry_blobs table.
type PostgresBlobStore struct {
	db *sqlx.DB
}

// NewPostgresBlobStore creates a new PostgresBlobStore.
func NewPostgresBlobStore(db *sqlx.DB) *PostgresBlobStore {
	return &PostgresBlobStore{db: db}
}

// Get returns the blob stored under key.
func (s *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM registry_blobs WHERE key = $1`

	var value []byte
	if err := s.db.QueryRowxContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Put inserts or fully replaces the blob stored under key.
func (s *PostgresBlobStore) Put(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO registry_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query, key, string(value))
	return err
}
