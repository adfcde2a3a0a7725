// Package config handles loading and saving application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "todolists-tui"

// Environment overrides.
const (
	EnvAPIKey  = "TODOLISTS_API_KEY"
	EnvBaseURL = "TODOLISTS_BASE_URL"
)

// Config represents the application configuration.
type Config struct {
	API APIConfig `yaml:"api"`
	UI  UIConfig  `yaml:"ui"`
	Log LogConfig `yaml:"log"`
}

// APIConfig holds service connection settings.
type APIConfig struct {
	// BaseURL overrides the default service URL
	BaseURL string `yaml:"base_url,omitempty"`

	// Key is the API-KEY header value. Prefer the keyring (see SaveAPIKey).
	Key string `yaml:"key,omitempty"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	VimMode bool `yaml:"vim_mode"`

	// Breakpoints are terminal widths below which the list grid drops to
	// 3, 2 and 1 columns. Must be descending.
	Breakpoints []int `yaml:"breakpoints,omitempty"`

	DesktopNotifications bool `yaml:"desktop_notifications"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`
}

// DefaultBreakpoints are used when the config sets none.
var DefaultBreakpoints = []int{180, 135, 90}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			VimMode:     true,
			Breakpoints: append([]int(nil), DefaultBreakpoints...),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from path, or from ConfigPath when path is
// empty. A missing file yields the default configuration. Environment
// overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		c.API.Key = key
	}
	if url := strings.TrimSpace(os.Getenv(EnvBaseURL)); url != "" {
		c.API.BaseURL = url
	}
}

// Validate checks the configuration for values the UI cannot work with.
func (c *Config) Validate() error {
	if len(c.UI.Breakpoints) == 0 {
		c.UI.Breakpoints = append([]int(nil), DefaultBreakpoints...)
	}
	if len(c.UI.Breakpoints) != 3 {
		return fmt.Errorf("ui.breakpoints must have 3 values, got %d", len(c.UI.Breakpoints))
	}
	for i := 1; i < len(c.UI.Breakpoints); i++ {
		if c.UI.Breakpoints[i] >= c.UI.Breakpoints[i-1] {
			return fmt.Errorf("ui.breakpoints must be descending, got %v", c.UI.Breakpoints)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}

	return nil
}

// Save writes the configuration to path, or to ConfigPath when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// APIKey returns the API key from the config, falling back to the keyring.
func (c *Config) APIKey() (string, error) {
	if c.API.Key != "" {
		return c.API.Key, nil
	}
	return GetAPIKey()
}

// Template is written by the init command.
const Template = `# todolists-tui configuration
# Location: ~/.config/todolists-tui/config.yaml

api:
  # Service URL (default: https://social-network.samuraijs.com/api/1.1)
  # base_url: ""

  # API key from https://social-network.samuraijs.com/account
  # Leave empty to be asked once and keep it in the system keyring.
  key: ""

ui:
  # Enable Vim-style keybindings (default: true)
  vim_mode: true

  # Terminal widths below which the grid uses 3, 2 and 1 columns
  breakpoints: [180, 135, 90]

  # Raise a desktop notification when a request fails
  desktop_notifications: false

log:
  # debug, info, warn or error
  level: info
  # Defaults to ~/.local/share/todolists-tui/todolists.log
  # file: ""
`
