package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 10, cfg.Backend.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.Backend.GetTimeout())
	assert.Equal(t, "gcip", cfg.Identity.Provider)
	assert.Equal(t, 15*time.Second, cfg.Identity.GetTimeout())
	assert.Equal(t, time.Hour, cfg.Identity.GetDevTokenExpiry())
	assert.True(t, cfg.Analytics.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsdeck.toml")
	data := `
environment = "production"

[backend]
base_url = "https://api.newsdeck.example"
rate_limit = 25
timeout = "10s"

[identity]
provider = "dev"
dev_secret = "local-secret"
dev_token_expiry = "2h"

[analytics]
enabled = false

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.newsdeck.example", cfg.Backend.BaseURL)
	assert.Equal(t, 25, cfg.Backend.RateLimit)
	assert.Equal(t, 10*time.Second, cfg.Backend.GetTimeout())
	assert.Equal(t, "dev", cfg.Identity.Provider)
	assert.Equal(t, "local-secret", cfg.Identity.DevSecret)
	assert.Equal(t, 2*time.Hour, cfg.Identity.GetDevTokenExpiry())
	assert.False(t, cfg.Analytics.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset sections keep their defaults.
	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1", cfg.Identity.BaseURL)
	assert.Equal(t, "data/newsdeck", cfg.Storage.Path)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
}

func TestLoadConfig_LaterFilesOverrideEarlier(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")
	require.NoError(t, os.WriteFile(base, []byte("[backend]\nbase_url = \"https://base.example\"\nrate_limit = 5\n"), 0644))
	require.NoError(t, os.WriteFile(local, []byte("[backend]\nbase_url = \"https://local.example\"\n"), 0644))

	cfg, err := LoadConfig(base, local)
	require.NoError(t, err)
	assert.Equal(t, "https://local.example", cfg.Backend.BaseURL)
	assert.Equal(t, 5, cfg.Backend.RateLimit, "values only the earlier file sets survive")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NEWSDECK_ENV", "production")
	t.Setenv("NEWSDECK_API_URL", "https://env.newsdeck.example")
	t.Setenv("NEWSDECK_API_RATE_LIMIT", "50")
	t.Setenv("NEWSDECK_IDENTITY_PROVIDER", "dev")
	t.Setenv("NEWSDECK_IDENTITY_DEV_SECRET", "env-secret")
	t.Setenv("NEWSDECK_ANALYTICS_ENABLED", "false")
	t.Setenv("NEWSDECK_LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://env.newsdeck.example", cfg.Backend.BaseURL)
	assert.Equal(t, 50, cfg.Backend.RateLimit)
	assert.Equal(t, "dev", cfg.Identity.Provider)
	assert.Equal(t, "env-secret", cfg.Identity.DevSecret)
	assert.False(t, cfg.Analytics.Enabled)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_InvalidEnvNumbersIgnored(t *testing.T) {
	t.Setenv("NEWSDECK_API_RATE_LIMIT", "not-a-number")
	t.Setenv("NEWSDECK_ANALYTICS_ENABLED", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Backend.RateLimit)
	assert.True(t, cfg.Analytics.Enabled)
}

func TestGetTimeout_Invalid(t *testing.T) {
	c := BackendConfig{Timeout: "garbage"}
	assert.Equal(t, 30*time.Second, c.GetTimeout())

	i := IdentityConfig{Timeout: "", DevTokenExpiry: "bogus"}
	assert.Equal(t, 15*time.Second, i.GetTimeout())
	assert.Equal(t, time.Hour, i.GetDevTokenExpiry())
}
