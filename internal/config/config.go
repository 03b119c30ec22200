// Package config loads choreflow configuration from ~/.choreflow/config.json.
// This is the single source of truth for provider keys, model selection,
// database location, and logging behavior.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoggingConfig controls the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// UserConfig holds all choreflow configuration.
//
// Supported models by provider:
//   - anthropic: claude-3-5-sonnet-20241022, claude-3-5-haiku-20241022
//   - gemini:    gemini-2.0-flash-exp (default), gemini-1.5-pro, gemini-1.5-flash
type UserConfig struct {
	// Provider selection (anthropic, gemini). Empty means auto-detect from
	// the configured keys.
	Provider string `json:"provider,omitempty"`

	// API keys for each provider.
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`

	// Optional model override (see supported models above).
	Model string `json:"model,omitempty"`

	// DatabasePath is the SQLite file location. Defaults to
	// <config dir>/choreflow.db.
	DatabasePath string `json:"database_path,omitempty"`

	Logging LoggingConfig `json:"logging,omitempty"`
}

// DefaultConfigDir returns ~/.choreflow, falling back to the working
// directory when the home directory cannot be resolved.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".choreflow"
	}
	return filepath.Join(home, ".choreflow")
}

// DefaultUserConfigPath returns the default config file path.
func DefaultUserConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// LoadUserConfig reads the config file at path. A missing file yields an
// empty config, not an error; callers fall back to environment variables.
func LoadUserConfig(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UserConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config back to path, creating the directory if needed.
func (c *UserConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetActiveProvider resolves the provider and API key to use.
// Priority: explicit provider field > configured keys > environment
// variables (ANTHROPIC_API_KEY before GEMINI_API_KEY).
func (c *UserConfig) GetActiveProvider() (provider, apiKey string) {
	switch c.Provider {
	case "anthropic":
		return "anthropic", c.AnthropicKey()
	case "gemini":
		return "gemini", c.GeminiKey()
	}

	if key := c.AnthropicKey(); key != "" {
		return "anthropic", key
	}
	if key := c.GeminiKey(); key != "" {
		return "gemini", key
	}
	return "", ""
}

// AnthropicKey returns the Anthropic key from config or environment.
func (c *UserConfig) AnthropicKey() string {
	if c.AnthropicAPIKey != "" {
		return c.AnthropicAPIKey
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

// GeminiKey returns the Gemini key from config or environment.
func (c *UserConfig) GeminiKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

// ResolveDatabasePath returns the configured database path or the default
// under the given config directory.
func (c *UserConfig) ResolveDatabasePath(configDir string) string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "choreflow.db")
}
