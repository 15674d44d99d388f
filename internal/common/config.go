// Package common provides shared configuration, logging, and version
// utilities for newsdeck.
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for newsdeck.
type Config struct {
	Environment string          `toml:"environment"`
	Backend     BackendConfig   `toml:"backend"`
	Identity    IdentityConfig  `toml:"identity"`
	Storage     StorageConfig   `toml:"storage"`
	Analytics   AnalyticsConfig `toml:"analytics"`
	Logging     LoggingConfig   `toml:"logging"`
}

// BackendConfig holds the dashboard backend API configuration.
type BackendConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration.
func (c *BackendConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// IdentityConfig holds identity provider configuration. Provider selects the
// implementation: "gcip" talks to a Google Identity Platform project,
// "dev" mints local HS256 tokens against a shared secret.
type IdentityConfig struct {
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	TokenURL string `toml:"token_url"`
	Timeout  string `toml:"timeout"`

	DevSecret      string `toml:"dev_secret"`
	DevTokenExpiry string `toml:"dev_token_expiry"`
}

// GetTimeout parses and returns the timeout duration.
func (c *IdentityConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetDevTokenExpiry parses and returns the dev token lifetime.
func (c *IdentityConfig) GetDevTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.DevTokenExpiry)
	if err != nil {
		return time.Hour
	}
	return d
}

// StorageConfig holds the local durable storage path (cached credentials and
// UI preferences).
type StorageConfig struct {
	Path string `toml:"path"`
}

// AnalyticsConfig holds the fire-and-forget analytics collector
// configuration. When Endpoint is empty, events are logged only.
type AnalyticsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	APISecret string `toml:"api_secret"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Backend: BackendConfig{
			BaseURL:   "http://localhost:8000",
			RateLimit: 10,
			Timeout:   "30s",
		},
		Identity: IdentityConfig{
			Provider:       "gcip",
			BaseURL:        "https://identitytoolkit.googleapis.com/v1",
			TokenURL:       "https://securetoken.googleapis.com/v1/token",
			Timeout:        "15s",
			DevTokenExpiry: "1h",
		},
		Storage: StorageConfig{
			Path: "data/newsdeck",
		},
		Analytics: AnalyticsConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped. A .env file
// in the working directory is loaded first so env resolution sees it.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies NEWSDECK_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NEWSDECK_ENV"); env != "" {
		config.Environment = env
	}

	if url := os.Getenv("NEWSDECK_API_URL"); url != "" {
		config.Backend.BaseURL = url
	}

	if rl := os.Getenv("NEWSDECK_API_RATE_LIMIT"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil {
			config.Backend.RateLimit = n
		}
	}

	if level := os.Getenv("NEWSDECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("NEWSDECK_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if provider := os.Getenv("NEWSDECK_IDENTITY_PROVIDER"); provider != "" {
		config.Identity.Provider = provider
	}
	if key := os.Getenv("NEWSDECK_IDENTITY_API_KEY"); key != "" {
		config.Identity.APIKey = key
	}
	if secret := os.Getenv("NEWSDECK_IDENTITY_DEV_SECRET"); secret != "" {
		config.Identity.DevSecret = secret
	}

	if endpoint := os.Getenv("NEWSDECK_ANALYTICS_ENDPOINT"); endpoint != "" {
		config.Analytics.Endpoint = endpoint
	}
	if secret := os.Getenv("NEWSDECK_ANALYTICS_API_SECRET"); secret != "" {
		config.Analytics.APISecret = secret
	}
	if enabled := os.Getenv("NEWSDECK_ANALYTICS_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Analytics.Enabled = b
		}
	}
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
