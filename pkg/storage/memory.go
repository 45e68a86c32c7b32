package storage

import (
	"context"
	"sync"

	"instalytics/pkg/analytics"
)

// MemoryStore is the default in-process backend. Snapshots are copied on
// both load and save so callers can never alias stored state.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*analytics.AccountSnapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]*analytics.AccountSnapshot),
	}
}

// LoadSnapshot returns a copy of the owner's snapshot
func (m *MemoryStore) LoadSnapshot(ctx context.Context, owner string) (*analytics.AccountSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.snapshots[owner]
	if !ok {
		return emptySnapshot(owner), nil
	}
	return copySnapshot(stored), nil
}

// SaveSnapshot stores a copy of the snapshot under its owner
func (m *MemoryStore) SaveSnapshot(ctx context.Context, snapshot *analytics.AccountSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[snapshot.Owner] = copySnapshot(snapshot)
	return nil
}

// Close is a no-op for the in-memory backend
func (m *MemoryStore) Close() error {
	return nil
}

func copySnapshot(snapshot *analytics.AccountSnapshot) *analytics.AccountSnapshot {
	out := &analytics.AccountSnapshot{
		Owner:     snapshot.Owner,
		Accounts:  analytics.MergeAnalytics(nil, snapshot.Accounts),
		UpdatedAt: snapshot.UpdatedAt,
	}
	return out
}
