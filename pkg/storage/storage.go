package storage

import (
	"context"
	"fmt"

	"instalytics/pkg/analytics"
	"instalytics/pkg/config"
)

// Store is the contract for persisting per-owner analytics snapshots
type Store interface {
	// LoadSnapshot returns the owner's snapshot, or an empty snapshot
	// for owners with nothing stored yet. It never returns nil with a
	// nil error.
	LoadSnapshot(ctx context.Context, owner string) (*analytics.AccountSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *analytics.AccountSnapshot) error
	Close() error
}

// NewStore creates a storage backend based on configuration
func NewStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "mongodb":
		return NewMongoStore(ctx, cfg)
	case "postgres":
		return NewPostgresStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// emptySnapshot is what a load for an unknown owner yields
func emptySnapshot(owner string) *analytics.AccountSnapshot {
	return &analytics.AccountSnapshot{
		Owner:    owner,
		Accounts: make(map[string]*analytics.Analytics),
	}
}
