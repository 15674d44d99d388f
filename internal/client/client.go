// Package client provides the dashboard backend API client: a rate-limited
// HTTP client whose every call runs through a bearer-token request pipeline
// with a bounded refresh-and-retry on authorization failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/haipham/newsdeck/internal/common"
	"github.com/haipham/newsdeck/internal/interfaces"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client talks to the dashboard backend API.
//
// Outbound, each request attaches the cached bearer token when one exists;
// absence is not an error. Inbound, a 401 triggers at most one forced token
// refresh through the identity bridge followed by a single re-submit of the
// original request. A second 401, or a refresh failure, clears the
// credential store, invokes the auth-failure handler, and propagates the
// original error.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *common.Logger
	limiter       *rate.Limiter
	creds         interfaces.CredentialStore
	bridge        interfaces.IdentityBridge
	onAuthFailure func()
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets the backend base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithIdentityBridge sets the identity bridge used for token refresh. Without
// a bridge every 401 is terminal.
func WithIdentityBridge(bridge interfaces.IdentityBridge) Option {
	return func(c *Client) {
		c.bridge = bridge
	}
}

// WithAuthFailureHandler sets the hook invoked on terminal authorization
// failure, after the credential store has been cleared. Typically wired to
// navigation to the login boundary.
func WithAuthFailureHandler(fn func()) Option {
	return func(c *Client) {
		c.onAuthFailure = fn
	}
}

// New creates a new backend API client using the given credential store.
func New(creds interfaces.CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		creds:   creds,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// do performs one API call through the request pipeline.
//
// The retried state is local to this call, so concurrent requests each get
// their own single retry and never suppress one another.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = b
	}

	token, _ := c.creds.Token(ctx)

	status, raw, err := c.send(ctx, method, path, query, payload, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		refreshed, refreshErr := c.refreshToken(ctx)
		if refreshErr != nil {
			c.logger.Warn().Err(refreshErr).Str("path", path).Msg("Token refresh failed")
			return c.failAuth(ctx, newAPIError(status, raw, path))
		}

		status, raw, err = c.send(ctx, method, path, query, payload, refreshed)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return c.failAuth(ctx, newAPIError(status, raw, path))
		}
	}

	if status < 200 || status > 299 {
		return newAPIError(status, raw, path)
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// send performs a single HTTP exchange and returns the status and raw body.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (int, []byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, raw, nil
}

// refreshToken asks the identity bridge for a forced token refresh and
// caches the result. Any valid token is acceptable, so a concurrent refresh
// landing last simply wins.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	if c.bridge == nil || c.bridge.CurrentPrincipal() == nil {
		return "", ErrNotSignedIn
	}

	token, err := c.bridge.IDToken(ctx, true)
	if err != nil {
		return "", err
	}

	if err := c.creds.SetToken(ctx, token); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache refreshed token")
	}

	return token, nil
}

// failAuth handles a terminal authorization failure: clear the credential
// store, fire the auth-failure hook once, and propagate the original error.
func (c *Client) failAuth(ctx context.Context, apiErr *APIError) error {
	if err := c.creds.ClearToken(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear credential store")
	}
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
	return apiErr
}
