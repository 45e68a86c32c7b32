package auth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "instalytics"
	keyringPrefix  = "instagram_"
	keyringIndex   = "account_index"
)

// KeyringStore implements CredentialStore using the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a new keyring-based credential store
func NewKeyringStore() (*KeyringStore, error) {
	// Test if keyring is available
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

// Store saves credentials to the system keychain
func (k *KeyringStore) Store(account *Account) error {
	if account == nil || account.Username == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	key := keyringPrefix + account.Username
	if err := keyring.Set(keyringService, key, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return k.addToIndex(account.Username)
}

// Retrieve gets credentials from the system keychain
func (k *KeyringStore) Retrieve(username string) (*Account, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	data, err := keyring.Get(keyringService, keyringPrefix+username)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to read from keyring: %w", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// List returns all stored accounts using the username index entry
func (k *KeyringStore) List() ([]*Account, error) {
	index, err := keyring.Get(keyringService, keyringIndex)
	if err != nil {
		if err == keyring.ErrNotFound {
			return []*Account{}, nil
		}
		return nil, fmt.Errorf("failed to read account index: %w", err)
	}

	var accounts []*Account
	for _, username := range strings.Split(index, ",") {
		if username == "" {
			continue
		}
		account, err := k.Retrieve(username)
		if err != nil {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Delete removes credentials from the system keychain
func (k *KeyringStore) Delete(username string) error {
	if username == "" {
		return ErrInvalidCredentials
	}

	if err := keyring.Delete(keyringService, keyringPrefix+username); err != nil {
		if err == keyring.ErrNotFound {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return k.removeFromIndex(username)
}

// Exists checks if credentials exist for a username
func (k *KeyringStore) Exists(username string) bool {
	_, err := keyring.Get(keyringService, keyringPrefix+username)
	return err == nil
}

func (k *KeyringStore) addToIndex(username string) error {
	index, err := keyring.Get(keyringService, keyringIndex)
	if err != nil && err != keyring.ErrNotFound {
		return err
	}

	usernames := strings.Split(index, ",")
	for _, u := range usernames {
		if u == username {
			return nil
		}
	}
	usernames = append(usernames, username)

	return keyring.Set(keyringService, keyringIndex, strings.Trim(strings.Join(usernames, ","), ","))
}

func (k *KeyringStore) removeFromIndex(username string) error {
	index, err := keyring.Get(keyringService, keyringIndex)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil
		}
		return err
	}

	var kept []string
	for _, u := range strings.Split(index, ",") {
		if u != username && u != "" {
			kept = append(kept, u)
		}
	}

	return keyring.Set(keyringService, keyringIndex, strings.Join(kept, ","))
}
