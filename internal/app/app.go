// Package app wires configuration, storage, identity, the API client, and
// the session synchronizer into a runnable application core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haipham/newsdeck/internal/analytics"
	"github.com/haipham/newsdeck/internal/client"
	"github.com/haipham/newsdeck/internal/common"
	"github.com/haipham/newsdeck/internal/identity"
	"github.com/haipham/newsdeck/internal/interfaces"
	"github.com/haipham/newsdeck/internal/session"
	"github.com/haipham/newsdeck/internal/storage"
)

// App holds all initialized components. It is the shared core consumed by
// cmd/newsdeck.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Store       *storage.Store
	Credentials *storage.CredentialStore
	Bridge      interfaces.IdentityBridge
	Analytics   interfaces.Analytics
	API         *client.Client
	Session     *session.Synchronizer
	Navigator   interfaces.Navigator
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all components. configPath may be empty, in which case
// the default resolution logic is used. nav receives the forced navigation
// on terminal auth failure and after sign-in/sign-out.
func NewApp(configPath string, nav interfaces.Navigator) (*App, error) {
	common.LoadVersionFromFile()

	if configPath == "" {
		configPath = os.Getenv("NEWSDECK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "newsdeck.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/newsdeck.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	creds := storage.NewCredentialStore(store, logger)

	bridge, err := newBridge(config, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	var an interfaces.Analytics
	switch {
	case !config.Analytics.Enabled:
		an = analytics.NewNoop()
	case config.Analytics.Endpoint != "":
		an = analytics.NewCollector(config.Analytics.Endpoint, config.Analytics.APISecret,
			analytics.WithLogger(logger),
		)
	default:
		an = analytics.NewNoop()
	}

	api := client.New(creds,
		client.WithBaseURL(config.Backend.BaseURL),
		client.WithTimeout(config.Backend.GetTimeout()),
		client.WithRateLimit(config.Backend.RateLimit),
		client.WithLogger(logger),
		client.WithIdentityBridge(bridge),
		client.WithAuthFailureHandler(nav.ToLogin),
	)

	sync := session.NewSynchronizer(bridge, api, creds, an, nav, logger)
	sync.Start()

	return &App{
		Config:      config,
		Logger:      logger,
		Store:       store,
		Credentials: creds,
		Bridge:      bridge,
		Analytics:   an,
		API:         api,
		Session:     sync,
		Navigator:   nav,
		StartupTime: time.Now(),
	}, nil
}

// newBridge selects the identity bridge implementation from config.
func newBridge(config *common.Config, logger *common.Logger) (interfaces.IdentityBridge, error) {
	switch config.Identity.Provider {
	case "dev":
		if config.Identity.DevSecret == "" {
			return nil, fmt.Errorf("identity provider 'dev' requires a dev_secret")
		}
		return identity.NewDevBridge(config.Identity.DevSecret,
			identity.WithDevLogger(logger),
			identity.WithDevTokenExpiry(config.Identity.GetDevTokenExpiry()),
		), nil
	case "gcip", "":
		if config.Identity.APIKey == "" {
			return nil, fmt.Errorf("identity provider 'gcip' requires an api_key")
		}
		return identity.NewGCIPBridge(config.Identity.APIKey,
			identity.WithBaseURL(config.Identity.BaseURL),
			identity.WithTokenURL(config.Identity.TokenURL),
			identity.WithTimeout(config.Identity.GetTimeout()),
			identity.WithLogger(logger),
		), nil
	default:
		return nil, fmt.Errorf("unknown identity provider: %s", config.Identity.Provider)
	}
}

// Close releases the application's resources.
func (a *App) Close() {
	a.Session.Close()
	if c, ok := a.Analytics.(*analytics.Collector); ok {
		c.Close()
	}
	if err := a.Store.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to close local storage")
	}
}
