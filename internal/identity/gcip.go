package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/haipham/newsdeck/internal/common"
	"github.com/haipham/newsdeck/internal/interfaces"
	"github.com/haipham/newsdeck/internal/models"
)

const (
	DefaultBaseURL  = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenURL = "https://securetoken.googleapis.com/v1/token"
	DefaultTimeout  = 15 * time.Second
)

// GCIPBridge implements IdentityBridge against a Google Identity Platform
// project: password sign-in mints an ID token and a refresh token; forced
// refresh exchanges the refresh token for a new ID token.
type GCIPBridge struct {
	apiKey     string
	baseURL    string
	tokenURL   string
	httpClient *http.Client
	logger     *common.Logger
	notifier

	mu           sync.Mutex
	principal    *models.Principal
	idToken      string
	refreshToken string
}

// Option configures the bridge.
type Option func(*GCIPBridge)

// WithBaseURL sets the identity toolkit base URL.
func WithBaseURL(baseURL string) Option {
	return func(b *GCIPBridge) {
		b.baseURL = baseURL
	}
}

// WithTokenURL sets the secure token endpoint URL.
func WithTokenURL(tokenURL string) Option {
	return func(b *GCIPBridge) {
		b.tokenURL = tokenURL
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) Option {
	return func(b *GCIPBridge) {
		b.logger = logger
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(b *GCIPBridge) {
		b.httpClient.Timeout = timeout
	}
}

// NewGCIPBridge creates a bridge for the project identified by apiKey.
func NewGCIPBridge(apiKey string, opts ...Option) *GCIPBridge {
	b := &GCIPBridge{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		tokenURL: DefaultTokenURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

type signInResponse struct {
	LocalID        string `json:"localId"`
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	ProfilePicture string `json:"profilePicture"`
	IDToken        string `json:"idToken"`
	RefreshToken   string `json:"refreshToken"`
}

// SignIn authenticates with email and password and replaces the current
// principal wholesale. Subscribers are notified after internal state is
// settled.
func (b *GCIPBridge) SignIn(ctx context.Context, email, password string) (*models.Principal, error) {
	reqURL := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", b.baseURL, url.QueryEscape(b.apiKey))
	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	var resp signInResponse
	if err := b.post(ctx, reqURL, "application/json", bytes.NewReader(payload), &resp); err != nil {
		return nil, err
	}

	principal := &models.Principal{
		ID:          resp.LocalID,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		PhotoURL:    resp.ProfilePicture,
	}

	b.mu.Lock()
	b.principal = principal
	b.idToken = resp.IDToken
	b.refreshToken = resp.RefreshToken
	b.mu.Unlock()

	b.logger.Debug().Str("uid", principal.ID).Msg("Identity sign-in succeeded")
	b.notify(principal)

	return principal, nil
}

// SignOut ends the provider session. Signing out while already signed out is
// a no-op.
func (b *GCIPBridge) SignOut(_ context.Context) error {
	b.mu.Lock()
	wasSignedIn := b.principal != nil
	b.principal = nil
	b.idToken = ""
	b.refreshToken = ""
	b.mu.Unlock()

	if wasSignedIn {
		b.notify(nil)
	}
	return nil
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

// IDToken returns a bearer token for the current principal, exchanging the
// refresh token for a new one when forceRefresh is set or no token is
// cached.
func (b *GCIPBridge) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	b.mu.Lock()
	cached := b.idToken
	refreshToken := b.refreshToken
	current := b.principal
	b.mu.Unlock()

	if current == nil {
		return "", &ProviderError{Code: "TOKEN_EXPIRED", Message: errorMessages["TOKEN_EXPIRED"]}
	}
	if !forceRefresh && cached != "" {
		return cached, nil
	}
	if refreshToken == "" {
		return "", mapProviderError("MISSING_REFRESH_TOKEN")
	}

	reqURL := fmt.Sprintf("%s?key=%s", b.tokenURL, url.QueryEscape(b.apiKey))
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	var resp refreshResponse
	if err := b.post(ctx, reqURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp); err != nil {
		return "", err
	}

	// The principal is replaced wholesale, never mutated in place.
	replacement := &models.Principal{
		ID:          current.ID,
		Email:       current.Email,
		DisplayName: current.DisplayName,
		PhotoURL:    current.PhotoURL,
	}

	b.mu.Lock()
	b.principal = replacement
	b.idToken = resp.IDToken
	if resp.RefreshToken != "" {
		b.refreshToken = resp.RefreshToken
	}
	b.mu.Unlock()

	b.logger.Debug().Str("uid", replacement.ID).Msg("Identity token refreshed")

	return resp.IDToken, nil
}

// CurrentPrincipal returns the signed-in principal, or nil.
func (b *GCIPBridge) CurrentPrincipal() *models.Principal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.principal
}

// OnPrincipalChanged registers a callback for principal transitions.
func (b *GCIPBridge) OnPrincipalChanged(fn func(*models.Principal)) func() {
	return b.subscribe(fn)
}

// post performs a provider call and decodes either the result or the
// provider's structured error.
func (b *GCIPBridge) post(ctx context.Context, reqURL, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeProviderError(raw)
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ interfaces.IdentityBridge = (*GCIPBridge)(nil)
