// Package session mirrors identity-provider state into the single
// application-visible session value and owns the sign-in and sign-out flows.
package session

import (
	"context"
	"sync"

	"github.com/haipham/newsdeck/internal/analytics"
	"github.com/haipham/newsdeck/internal/client"
	"github.com/haipham/newsdeck/internal/common"
	"github.com/haipham/newsdeck/internal/interfaces"
	"github.com/haipham/newsdeck/internal/models"
)

// Synchronizer subscribes once to the identity bridge's principal-change
// notifications and replaces the visible session atomically on each one.
// It is the only writer of the session value; readers always observe a
// whole, settled value.
type Synchronizer struct {
	bridge    interfaces.IdentityBridge
	api       *client.Client
	creds     interfaces.CredentialStore
	analytics interfaces.Analytics
	nav       interfaces.Navigator
	logger    *common.Logger

	mu      sync.RWMutex
	current models.Session

	startOnce   sync.Once
	unsubscribe func()
}

// NewSynchronizer creates a synchronizer. Until Start has run and the first
// notification arrives, the session reads as (absent, loading=true).
func NewSynchronizer(
	bridge interfaces.IdentityBridge,
	api *client.Client,
	creds interfaces.CredentialStore,
	an interfaces.Analytics,
	nav interfaces.Navigator,
	logger *common.Logger,
) *Synchronizer {
	return &Synchronizer{
		bridge:    bridge,
		api:       api,
		creds:     creds,
		analytics: an,
		nav:       nav,
		logger:    logger,
		current:   models.Session{Loading: true},
	}
}

// Start subscribes to principal changes. Safe to call more than once; only
// the first call subscribes, and the subscription lives until Close.
func (s *Synchronizer) Start() {
	s.startOnce.Do(func() {
		s.unsubscribe = s.bridge.OnPrincipalChanged(s.handleChange)
	})
}

// Close removes the subscription.
func (s *Synchronizer) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Session returns the current session value.
func (s *Synchronizer) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// handleChange replaces the session wholesale and applies best-effort
// analytics identity side effects.
func (s *Synchronizer) handleChange(p *models.Principal) {
	s.mu.Lock()
	s.current = models.Session{Principal: p, Loading: false}
	s.mu.Unlock()

	s.applyAnalyticsIdentity(p)
}

// applyAnalyticsIdentity registers or clears the analytics user identity.
// Failures must never reach the synchronizer's critical path.
func (s *Synchronizer) applyAnalyticsIdentity(p *models.Principal) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Interface("panic", r).Msg("Analytics identity update panicked")
		}
	}()

	if p == nil {
		s.analytics.ClearIdentity()
		return
	}

	props := make(map[string]string)
	if p.Email != "" {
		props["email"] = p.Email
	}
	if p.DisplayName != "" {
		props["display_name"] = p.DisplayName
	}
	s.analytics.Identify(p.ID, props)
}

// SignIn authenticates with the identity provider, caches the minted token,
// and registers the user with the backend. If the backend call fails the
// provider sign-in is rolled back so the client never holds a locally
// signed-in principal the backend has not acknowledged.
func (s *Synchronizer) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	principal, err := s.bridge.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.bridge.IDToken(ctx, false)
	if err != nil {
		s.rollback(ctx)
		return nil, err
	}

	if err := s.creds.SetToken(ctx, token); err != nil {
		// Not fatal: the pipeline refreshes and re-caches on first use.
		s.logger.Warn().Err(err).Msg("Failed to cache sign-in token")
	}

	user, err := s.api.Login(ctx, models.LoginRequest{
		FirebaseToken: token,
		Email:         principal.Email,
		DisplayName:   principal.DisplayName,
		PhotoURL:      principal.PhotoURL,
	})
	if err != nil {
		s.rollback(ctx)
		return nil, err
	}

	s.analytics.Track(analytics.EventLogin, map[string]any{"method": "password"})
	s.nav.ToHome()

	return user, nil
}

// rollback signs out of the identity provider and clears cached
// credentials after a failed sign-in flow.
func (s *Synchronizer) rollback(ctx context.Context) {
	if err := s.bridge.SignOut(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Sign-in rollback: provider sign-out failed")
	}
	if err := s.creds.ClearToken(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Sign-in rollback: failed to clear credentials")
	}
}

// SignOut ends the session. Local cleanup always completes, even when the
// provider call fails, and signing out while already signed out is a no-op.
func (s *Synchronizer) SignOut(ctx context.Context) {
	if s.Session().SignedIn() {
		s.analytics.Track(analytics.EventLogout, nil)
	}

	if err := s.bridge.SignOut(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Provider sign-out failed")
	}
	if err := s.creds.ClearToken(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear credentials on sign-out")
	}

	s.mu.Lock()
	s.current = models.Session{Loading: false}
	s.mu.Unlock()

	s.nav.ToLogin()
}
