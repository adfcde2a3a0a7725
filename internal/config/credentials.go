package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService  = appName
	keyringAPIKey   = "api-key"
	keyringLogin    = "login"
	apiKeyFileName  = ".api-key"
	loginFileName   = ".login"
	credentialsPerm = 0600
)

// ErrKeyringUnavailable is returned by SaveCredentials when the system
// keyring cannot hold the password. Passwords never fall back to a file.
var ErrKeyringUnavailable = errors.New("system keyring unavailable")

// Credentials are remembered login details.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DataDir returns the path to the data directory for secure storage.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/todolists-tui/
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}

	dataDir := filepath.Join(dataHome, appName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}

// getSecret reads a secret from the keyring, falling back to a file in DataDir.
// A missing secret is returned as "" with a nil error.
func getSecret(user, fileName string) (string, error) {
	secret, err := keyring.Get(keyringService, user)
	if err == nil && secret != "" {
		return secret, nil
	}

	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(dataDir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// setSecret stores a secret in the keyring, falling back to a file.
func setSecret(user, fileName, secret string) error {
	if err := keyring.Set(keyringService, user, secret); err == nil {
		return nil
	}

	dataDir, err := DataDir()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dataDir, fileName), []byte(secret), credentialsPerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", fileName, err)
	}

	return nil
}

// deleteSecret removes a secret from every location.
func deleteSecret(user, fileName string) error {
	// Try to delete from keyring (ignore errors)
	_ = keyring.Delete(keyringService, user)

	dataDir, err := DataDir()
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dataDir, fileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", fileName, err)
	}

	return nil
}

// GetAPIKey retrieves the stored API key.
// Priority: 1. TODOLISTS_API_KEY env var, 2. System keyring, 3. Key file
func GetAPIKey() (string, error) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return strings.TrimSpace(key), nil
	}
	return getSecret(keyringAPIKey, apiKeyFileName)
}

// SaveAPIKey stores the API key securely.
func SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	return setSecret(keyringAPIKey, apiKeyFileName, key)
}

// GetCredentials returns remembered login credentials, or nil when none are
// stored. Only the system keyring is consulted.
func GetCredentials() (*Credentials, error) {
	raw, err := keyring.Get(keyringService, keyringLogin)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	if raw == "" {
		return nil, nil
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("failed to decode stored credentials: %w", err)
	}
	if creds.Email == "" || creds.Password == "" {
		return nil, nil
	}
	return &creds, nil
}

// SaveCredentials remembers login credentials for the next start in the
// system keyring.
func SaveCredentials(creds Credentials) error {
	if creds.Email == "" || creds.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := keyring.Set(keyringService, keyringLogin, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// ClearCredentials forgets remembered login credentials, including a login
// file left by older versions.
func ClearCredentials() error {
	return deleteSecret(keyringLogin, loginFileName)
}

// ClearAll removes the API key and remembered credentials.
func ClearAll() error {
	if err := deleteSecret(keyringAPIKey, apiKeyFileName); err != nil {
		return err
	}
	return ClearCredentials()
}
