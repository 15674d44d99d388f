package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haipham/newsdeck/internal/models"
)

func TestDevBridge_SignInMintsVerifiableToken(t *testing.T) {
	bridge := NewDevBridge("dev-secret")

	ctx := context.Background()
	principal, err := bridge.SignIn(ctx, "dev@example.com", "pw")
	require.NoError(t, err)
	assert.Contains(t, principal.ID, "dev-")
	assert.Equal(t, "dev@example.com", principal.Email)

	signed, err := bridge.IDToken(ctx, false)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte("dev-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, principal.ID, claims["sub"])
	assert.Equal(t, "dev@example.com", claims["email"])
	assert.Equal(t, "newsdeck-dev", claims["iss"])
}

func TestDevBridge_RejectsEmptyCredentials(t *testing.T) {
	bridge := NewDevBridge("dev-secret")

	_, err := bridge.SignIn(context.Background(), "", "pw")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", provErr.Code)

	_, err = bridge.SignIn(context.Background(), "dev@example.com", "")
	require.ErrorAs(t, err, &provErr)
}

func TestDevBridge_ForcedRefreshReplacesPrincipal(t *testing.T) {
	bridge := NewDevBridge("dev-secret")

	ctx := context.Background()
	before, err := bridge.SignIn(ctx, "dev@example.com", "pw")
	require.NoError(t, err)

	second, err := bridge.IDToken(ctx, true)
	require.NoError(t, err)
	assert.NotEmpty(t, second)

	after := bridge.CurrentPrincipal()
	assert.NotSame(t, before, after)
	assert.Equal(t, before.ID, after.ID)

	cached, err := bridge.IDToken(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, second, cached)
}

func TestDevBridge_NearExpiryTokenIsReminted(t *testing.T) {
	bridge := NewDevBridge("dev-secret", WithDevTokenExpiry(10*time.Second))

	ctx := context.Background()
	_, err := bridge.SignIn(ctx, "dev@example.com", "pw")
	require.NoError(t, err)

	// Lifetime is inside the expiry slack, so even a non-forced read mints.
	token, err := bridge.IDToken(ctx, false)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestDevBridge_PrincipalTransitions(t *testing.T) {
	bridge := NewDevBridge("dev-secret")

	var transitions []*models.Principal
	unsub := bridge.OnPrincipalChanged(func(p *models.Principal) {
		transitions = append(transitions, p)
	})
	defer unsub()

	ctx := context.Background()
	_, err := bridge.SignIn(ctx, "dev@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, bridge.SignOut(ctx))
	require.NoError(t, bridge.SignOut(ctx))

	require.Len(t, transitions, 2)
	assert.NotNil(t, transitions[0])
	assert.Nil(t, transitions[1])

	_, err = bridge.IDToken(ctx, false)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "TOKEN_EXPIRED", provErr.Code)
}
