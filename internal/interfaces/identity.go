// Package interfaces defines the contracts between newsdeck components.
package interfaces

import (
	"context"

	"github.com/haipham/newsdeck/internal/models"
)

// IdentityBridge wraps a third-party identity provider. The rest of the
// application treats it as an opaque capability: it can sign users in and
// out, mint or refresh bearer tokens, and report the current principal.
type IdentityBridge interface {
	// SignIn authenticates interactively with the provider and returns the
	// resulting principal.
	SignIn(ctx context.Context, email, password string) (*models.Principal, error)

	// SignOut ends the provider session. Calling it while signed out is not
	// an error.
	SignOut(ctx context.Context) error

	// IDToken returns a bearer token for the current principal. When
	// forceRefresh is true a fresh token is minted from the provider even if
	// a cached one exists.
	IDToken(ctx context.Context, forceRefresh bool) (string, error)

	// CurrentPrincipal returns the signed-in principal, or nil.
	CurrentPrincipal() *models.Principal

	// OnPrincipalChanged registers a callback invoked on every principal
	// transition (sign-in, sign-out). The returned function removes the
	// subscription.
	OnPrincipalChanged(fn func(*models.Principal)) (unsubscribe func())
}

// Navigator is the navigation boundary: a well-known login route the
// pipeline forces on unrecoverable auth failure, and a home route used after
// a successful login.
type Navigator interface {
	ToLogin()
	ToHome()
}
