package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"secureeye/pkg/platform/sentinel"
)

// PostgresStore persists bindings in PostgreSQL. The upsert relies on
// ON CONFLICT, so last-write-wins serialization per device is the
// database's row lock, not an application lock.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed binding store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the bindings table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS device_bindings (
			device_id    TEXT PRIMARY KEY,
			recipient_id TEXT NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migrate device_bindings: %w", err)
	}
	return nil
}

// Put upserts the binding. Last writer wins.
func (s *PostgresStore) Put(ctx context.Context, deviceID, recipientID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO device_bindings (device_id, recipient_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (device_id)
		DO UPDATE SET recipient_id = EXCLUDED.recipient_id, updated_at = now()`,
		deviceID, recipientID)
	if err != nil {
		return fmt.Errorf("put binding %s: %v: %w", deviceID, err, sentinel.ErrUnavailable)
	}
	return nil
}

// Get returns the bound recipient or sentinel.ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, deviceID string) (string, error) {
	var recipientID string
	err := s.pool.QueryRow(ctx,
		`SELECT recipient_id FROM device_bindings WHERE device_id = $1`,
		deviceID).Scan(&recipientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get binding %s: %v: %w", deviceID, err, sentinel.ErrUnavailable)
	}
	return recipientID, nil
}
