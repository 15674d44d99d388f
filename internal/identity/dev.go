package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/haipham/newsdeck/internal/common"
	"github.com/haipham/newsdeck/internal/interfaces"
	"github.com/haipham/newsdeck/internal/models"
)

// DevBridge implements IdentityBridge by minting local HS256 JWTs against a
// shared secret, for development against a backend configured with the same
// secret. Any non-empty email and password are accepted.
type DevBridge struct {
	secret []byte
	expiry time.Duration
	logger *common.Logger
	notifier

	mu        sync.Mutex
	principal *models.Principal
	idToken   string
	expiresAt time.Time
}

// DevOption configures the dev bridge.
type DevOption func(*DevBridge)

// WithDevLogger sets the logger.
func WithDevLogger(logger *common.Logger) DevOption {
	return func(b *DevBridge) {
		b.logger = logger
	}
}

// WithDevTokenExpiry sets the lifetime of minted tokens.
func WithDevTokenExpiry(expiry time.Duration) DevOption {
	return func(b *DevBridge) {
		b.expiry = expiry
	}
}

// NewDevBridge creates a dev bridge minting tokens with the given secret.
func NewDevBridge(secret string, opts ...DevOption) *DevBridge {
	b := &DevBridge{
		secret: []byte(secret),
		expiry: time.Hour,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// SignIn creates a local principal for the given email and mints a token.
func (b *DevBridge) SignIn(_ context.Context, email, password string) (*models.Principal, error) {
	if email == "" || password == "" {
		return nil, mapProviderError("INVALID_LOGIN_CREDENTIALS")
	}

	principal := &models.Principal{
		ID:          "dev-" + uuid.NewString(),
		Email:       email,
		DisplayName: email,
	}

	token, expiresAt, err := b.mint(principal)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.principal = principal
	b.idToken = token
	b.expiresAt = expiresAt
	b.mu.Unlock()

	b.logger.Debug().Str("uid", principal.ID).Msg("Dev identity sign-in")
	b.notify(principal)

	return principal, nil
}

// SignOut clears the local session. Idempotent.
func (b *DevBridge) SignOut(_ context.Context) error {
	b.mu.Lock()
	wasSignedIn := b.principal != nil
	b.principal = nil
	b.idToken = ""
	b.expiresAt = time.Time{}
	b.mu.Unlock()

	if wasSignedIn {
		b.notify(nil)
	}
	return nil
}

// IDToken returns the cached token, minting a fresh one when forceRefresh is
// set or the cached one is near expiry.
func (b *DevBridge) IDToken(_ context.Context, forceRefresh bool) (string, error) {
	b.mu.Lock()
	current := b.principal
	cached := b.idToken
	expiresAt := b.expiresAt
	b.mu.Unlock()

	if current == nil {
		return "", &ProviderError{Code: "TOKEN_EXPIRED", Message: errorMessages["TOKEN_EXPIRED"]}
	}
	if !forceRefresh && cached != "" && time.Until(expiresAt) > 30*time.Second {
		return cached, nil
	}

	// Replace the principal wholesale alongside the new token.
	replacement := &models.Principal{
		ID:          current.ID,
		Email:       current.Email,
		DisplayName: current.DisplayName,
		PhotoURL:    current.PhotoURL,
	}

	token, newExpiry, err := b.mint(replacement)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	b.principal = replacement
	b.idToken = token
	b.expiresAt = newExpiry
	b.mu.Unlock()

	return token, nil
}

// CurrentPrincipal returns the signed-in principal, or nil.
func (b *DevBridge) CurrentPrincipal() *models.Principal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.principal
}

// OnPrincipalChanged registers a callback for principal transitions.
func (b *DevBridge) OnPrincipalChanged(fn func(*models.Principal)) func() {
	return b.subscribe(fn)
}

// mint creates a signed HMAC-SHA256 JWT for the principal.
func (b *DevBridge) mint(principal *models.Principal) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(b.expiry)
	claims := jwt.MapClaims{
		"sub":   principal.ID,
		"email": principal.Email,
		"name":  principal.DisplayName,
		"iss":   "newsdeck-dev",
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(b.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

var _ interfaces.IdentityBridge = (*DevBridge)(nil)
