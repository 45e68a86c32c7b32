package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"instalytics/pkg/analytics"
	"instalytics/pkg/config"
)

// PostgresStore persists snapshots as one JSONB row per owner
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the database and ensures the snapshot table exists
func NewPostgresStore(cfg config.StorageConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure snapshot table: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) ensureTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS account_snapshots (
			owner      TEXT PRIMARY KEY,
			accounts   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

// LoadSnapshot fetches the owner's row; a missing row yields an empty
// snapshot, not an error.
func (s *PostgresStore) LoadSnapshot(ctx context.Context, owner string) (*analytics.AccountSnapshot, error) {
	var (
		raw       []byte
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT accounts, updated_at FROM account_snapshots WHERE owner = $1`,
		owner,
	).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return emptySnapshot(owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", owner, err)
	}

	accounts := make(map[string]*analytics.Analytics)
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %s: %w", owner, err)
	}

	return &analytics.AccountSnapshot{
		Owner:     owner,
		Accounts:  accounts,
		UpdatedAt: updatedAt,
	}, nil
}

// SaveSnapshot upserts the owner's row
func (s *PostgresStore) SaveSnapshot(ctx context.Context, snapshot *analytics.AccountSnapshot) error {
	raw, err := json.Marshal(snapshot.Accounts)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for %s: %w", snapshot.Owner, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO account_snapshots (owner, accounts, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner) DO UPDATE
		SET accounts = EXCLUDED.accounts, updated_at = EXCLUDED.updated_at`,
		snapshot.Owner, raw, snapshot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", snapshot.Owner, err)
	}
	return nil
}

// Close closes the database pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
