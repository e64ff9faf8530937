package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres persists entries in the kv_entries table created by the goose migrations.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Get retrieves a value by key using parameterized queries
func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	query := `SELECT value FROM kv_entries WHERE key = $1`

	var value string
	err := p.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get entry: %w", err)
	}

	return value, true, nil
}

// Set upserts a value so the row always holds the latest write
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set entry: %w", err)
	}

	return nil
}

// Remove deletes the row; a missing row is not an error
func (p *Postgres) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	query := `DELETE FROM kv_entries WHERE key = $1`

	if _, err := p.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove entry: %w", err)
	}

	return nil
}
