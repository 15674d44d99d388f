package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haipham/newsdeck/internal/models"
	"github.com/haipham/newsdeck/internal/storage"
)

// fakeBridge is a minimal identity bridge for pipeline tests.
type fakeBridge struct {
	mu           sync.Mutex
	principal    *models.Principal
	nextToken    string
	refreshErr   error
	refreshCalls int
}

func (f *fakeBridge) SignIn(_ context.Context, email, _ string) (*models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.principal = &models.Principal{ID: "uid-1", Email: email}
	return f.principal, nil
}

func (f *fakeBridge) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.principal = nil
	return nil
}

func (f *fakeBridge) IDToken(_ context.Context, forceRefresh bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if forceRefresh {
		f.refreshCalls++
	}
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return f.nextToken, nil
}

func (f *fakeBridge) CurrentPrincipal() *models.Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.principal
}

func (f *fakeBridge) OnPrincipalChanged(func(*models.Principal)) func() {
	return func() {}
}

func (f *fakeBridge) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

func signedInBridge(token string) *fakeBridge {
	return &fakeBridge{
		principal: &models.Principal{ID: "uid-1", Email: "user@example.com"},
		nextToken: token,
	}
}

func TestPipeline_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	creds := storage.NewMemoryCredentialStore()
	require.NoError(t, creds.SetToken(context.Background(), "cached-token"))

	c := New(creds, WithBaseURL(srv.URL))
	_, err := c.Articles(context.Background(), models.ArticleQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer cached-token", gotAuth)
}

func TestPipeline_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(storage.NewMemoryCredentialStore(), WithBaseURL(srv.URL))
	_, err := c.Articles(context.Background(), models.ArticleQuery{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestPipeline_RefreshAndRetryOn401(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"firebase_uid":"uid-1","email":"user@example.com","role":"USER"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := storage.NewMemoryCredentialStore()
	require.NoError(t, creds.SetToken(ctx, "stale-token"))
	bridge := signedInBridge("fresh-token")

	navCalls := 0
	c := New(creds,
		WithBaseURL(srv.URL),
		WithIdentityBridge(bridge),
		WithAuthFailureHandler(func() { navCalls++ }),
	)

	user, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, 1, bridge.RefreshCalls())
	assert.Zero(t, navCalls)

	// The refreshed token is cached for unrelated follow-up requests.
	token, ok := creds.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "fresh-token", token)

	_, err = c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load(), "follow-up call must succeed on its first attempt")
	assert.Equal(t, 1, bridge.RefreshCalls())
}

func TestPipeline_SingleRetryThenTerminal(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token revoked"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := storage.NewMemoryCredentialStore()
	require.NoError(t, creds.SetToken(ctx, "revoked"))
	bridge := signedInBridge("still-revoked")

	navCalls := 0
	c := New(creds,
		WithBaseURL(srv.URL),
		WithIdentityBridge(bridge),
		WithAuthFailureHandler(func() { navCalls++ }),
	)

	_, err := c.Me(ctx)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Token revoked", apiErr.Message)

	assert.Equal(t, int32(2), requests.Load(), "at most one retry per original request")
	assert.Equal(t, 1, navCalls, "login navigation fires exactly once")

	_, ok := creds.Token(ctx)
	assert.False(t, ok, "credential store must be cleared")
}

func TestPipeline_RefreshFailureIsTerminal(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Expired"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := storage.NewMemoryCredentialStore()
	require.NoError(t, creds.SetToken(ctx, "expired"))

	bridge := signedInBridge("")
	bridge.refreshErr = errors.New("provider outage")

	navCalls := 0
	c := New(creds,
		WithBaseURL(srv.URL),
		WithIdentityBridge(bridge),
		WithAuthFailureHandler(func() { navCalls++ }),
	)

	_, err := c.Me(ctx)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	assert.Equal(t, int32(1), requests.Load(), "no retry without a refreshed token")
	assert.Equal(t, 1, navCalls)

	_, ok := creds.Token(ctx)
	assert.False(t, ok)
}

func TestPipeline_NoPrincipalIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Unauthorized"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := storage.NewMemoryCredentialStore()
	require.NoError(t, creds.SetToken(ctx, "orphaned"))

	navCalls := 0
	c := New(creds,
		WithBaseURL(srv.URL),
		WithIdentityBridge(&fakeBridge{}), // no principal signed in
		WithAuthFailureHandler(func() { navCalls++ }),
	)

	_, err := c.Me(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, navCalls)

	_, ok := creds.Token(ctx)
	assert.False(t, ok)
}

func TestPipeline_ConcurrentRetriesAreIndependent(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid token"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := storage.NewMemoryCredentialStore()
	require.NoError(t, creds.SetToken(ctx, "stale-token"))
	bridge := signedInBridge("fresh-token")

	c := New(creds,
		WithBaseURL(srv.URL),
		WithRateLimit(100),
		WithIdentityBridge(bridge),
	)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Articles(ctx, models.ArticleQuery{})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(4), requests.Load(), "each request performs its own single retry")
}

func TestPipeline_NonAuthErrorsPropagateUntouched(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found"}`))
	}))
	defer srv.Close()

	navCalls := 0
	c := New(storage.NewMemoryCredentialStore(),
		WithBaseURL(srv.URL),
		WithIdentityBridge(signedInBridge("unused")),
		WithAuthFailureHandler(func() { navCalls++ }),
	)

	_, err := c.Category(context.Background(), 99)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not found", apiErr.Message)
	assert.Equal(t, int32(1), requests.Load(), "no retry for non-401 failures")
	assert.Zero(t, navCalls)
}

func TestPipeline_TransportErrorPropagates(t *testing.T) {
	c := New(storage.NewMemoryCredentialStore(),
		WithBaseURL("http://127.0.0.1:1"), // nothing listens here
	)
	_, err := c.Categories(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not API errors")
}
