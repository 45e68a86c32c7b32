package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrCredentialsNotFound indicates no stored credentials for a username
	ErrCredentialsNotFound = errors.New("credentials not found")
	// ErrInvalidCredentials indicates malformed or incomplete credentials
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStoreUnavailable indicates the backing store cannot perform the operation
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// Account holds the session credentials used by the fetch collaborator
type Account struct {
	Username     string    `json:"username"`
	SessionID    string    `json:"session_id"`
	CSRFToken    string    `json:"csrf_token"`
	UserAgent    string    `json:"user_agent,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves credentials for a given account
	Store(account *Account) error

	// Retrieve gets credentials for a specific username
	Retrieve(username string) (*Account, error)

	// List returns all stored accounts
	List() ([]*Account, error)

	// Delete removes credentials for a specific username
	Delete(username string) error

	// Exists checks if credentials exist for a username
	Exists(username string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a new credential manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	// Environment variables as last resort
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager backed by the given stores, in order
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first available store
func (m *Manager) Store(account *Account) error {
	if account.Username == "" {
		return errors.New("username is required")
	}
	if account.SessionID == "" {
		return errors.New("session ID is required")
	}
	if account.CSRFToken == "" {
		return errors.New("CSRF token is required")
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(account); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets credentials, trying each store in order
func (m *Manager) Retrieve(username string) (*Account, error) {
	for _, store := range m.stores {
		account, err := store.Retrieve(username)
		if err == nil && account != nil {
			return account, nil
		}
	}
	return nil, ErrCredentialsNotFound
}

// List returns all accounts from the first store that has any
func (m *Manager) List() ([]*Account, error) {
	for _, store := range m.stores {
		accounts, err := store.List()
		if err == nil && len(accounts) > 0 {
			return accounts, nil
		}
	}
	return []*Account{}, nil
}

// Delete removes credentials from every store that has them
func (m *Manager) Delete(username string) error {
	deleted := false
	for _, store := range m.stores {
		if store.Exists(username) {
			if err := store.Delete(username); err == nil {
				deleted = true
			}
		}
	}
	if !deleted {
		return ErrCredentialsNotFound
	}
	return nil
}

// Exists checks if credentials exist in any store
func (m *Manager) Exists(username string) bool {
	for _, store := range m.stores {
		if store.Exists(username) {
			return true
		}
	}
	return false
}

// SanitizeAccount returns a copy with secrets masked, safe for display
func SanitizeAccount(account *Account) *Account {
	if account == nil {
		return nil
	}
	return &Account{
		Username:     account.Username,
		SessionID:    maskSecret(account.SessionID),
		CSRFToken:    maskSecret(account.CSRFToken),
		UserAgent:    account.UserAgent,
		LastModified: account.LastModified,
	}
}

// maskSecret keeps the first and last two characters of a secret
func maskSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}

// getConfigDir returns the platform config directory for stored credentials
func getConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "instalytics"), nil
}
