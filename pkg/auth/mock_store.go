package auth

import "sync"

// MockStore is an in-memory CredentialStore for testing
type MockStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewMockStore creates a new in-memory credential store
func NewMockStore() *MockStore {
	return &MockStore{accounts: make(map[string]*Account)}
}

// NewMockManager returns a Manager backed only by a mock store, plus the store
func NewMockManager() (*Manager, *MockStore) {
	store := NewMockStore()
	return NewManagerWithStores(store), store
}

// Store saves credentials in memory
func (m *MockStore) Store(account *Account) error {
	if account == nil || account.Username == "" {
		return ErrInvalidCredentials
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := *account
	m.accounts[account.Username] = &acc
	return nil
}

// Retrieve gets credentials from memory
func (m *MockStore) Retrieve(username string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[username]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	acc := *account
	return &acc, nil
}

// List returns all stored accounts
func (m *MockStore) List() ([]*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		acc := *account
		out = append(out, &acc)
	}
	return out, nil
}

// Delete removes credentials from memory
func (m *MockStore) Delete(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[username]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, username)
	return nil
}

// Exists checks if credentials exist
func (m *MockStore) Exists(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[username]
	return ok
}

// Count returns the number of stored accounts
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}
