package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	account := &Account{
		Username:     "testuser",
		SessionID:    "test_session_id_12345",
		CSRFToken:    "test_csrf_token_67890",
		UserAgent:    "TestAgent/1.0",
		LastModified: time.Now(),
	}

	require.NoError(t, manager.Store(account))

	retrieved, err := manager.Retrieve("testuser")
	require.NoError(t, err)
	assert.Equal(t, account.Username, retrieved.Username)
	assert.Equal(t, account.SessionID, retrieved.SessionID)
	assert.Equal(t, account.CSRFToken, retrieved.CSRFToken)

	accounts, err := manager.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, manager.Delete("testuser"))
	_, err = manager.Retrieve("testuser")
	assert.Error(t, err)
	assert.Equal(t, 0, mockStore.Count())
}

func TestManagerRejectsIncompleteCredentials(t *testing.T) {
	manager, _ := NewMockManager()

	tests := []struct {
		name    string
		account *Account
	}{
		{"missing username", &Account{SessionID: "s", CSRFToken: "c"}},
		{"missing session id", &Account{Username: "u", CSRFToken: "c"}},
		{"missing csrf token", &Account{Username: "u", SessionID: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, manager.Store(tt.account))
		})
	}
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{
		Username:  "testuser",
		SessionID: "very_secret_session",
		CSRFToken: "very_secret_token",
	}

	sanitized := SanitizeAccount(account)
	assert.Equal(t, account.Username, sanitized.Username)
	assert.NotEqual(t, account.SessionID, sanitized.SessionID)
	assert.NotEqual(t, account.CSRFToken, sanitized.CSRFToken)
	assert.Contains(t, sanitized.SessionID, "*")

	assert.Nil(t, SanitizeAccount(nil))
}

func TestEncryptedFileStore(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "creds.enc")

	os.Setenv("INSTALYTICS_PASSPHRASE", "test_passphrase_123")
	defer os.Unsetenv("INSTALYTICS_PASSPHRASE")

	store, err := NewEncryptedFileStore(tempFile)
	require.NoError(t, err)

	account := &Account{
		Username:  "encuser",
		SessionID: "enc_session",
		CSRFToken: "enc_token",
	}
	require.NoError(t, store.Store(account))

	// File content must not leak the secrets in plaintext
	raw, err := os.ReadFile(tempFile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "enc_session")

	retrieved, err := store.Retrieve("encuser")
	require.NoError(t, err)
	assert.Equal(t, "enc_session", retrieved.SessionID)

	assert.True(t, store.Exists("encuser"))
	assert.False(t, store.Exists("nobody"))

	require.NoError(t, store.Delete("encuser"))
	_, err = store.Retrieve("encuser")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEnvironmentStore(t *testing.T) {
	os.Setenv("INSTALYTICS_SESSION_ID", "env_session")
	os.Setenv("INSTALYTICS_CSRF_TOKEN", "env_token")
	defer func() {
		os.Unsetenv("INSTALYTICS_SESSION_ID")
		os.Unsetenv("INSTALYTICS_CSRF_TOKEN")
	}()

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Username)
	assert.Equal(t, "env_session", account.SessionID)

	assert.True(t, store.Exists("anything"))
	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("x"), ErrStoreUnavailable)
}
