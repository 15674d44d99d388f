package interfaces

import "context"

// CredentialStore holds the current bearer token, durably on disk for the
// default implementation. Replacement is last-writer-wins: any valid token
// is acceptable, so concurrent refreshes are not fenced.
type CredentialStore interface {
	// Token returns the cached bearer token. ok is false when none is cached.
	Token(ctx context.Context) (token string, ok bool)

	// SetToken caches a token, superseding any previous one.
	SetToken(ctx context.Context, token string) error

	// ClearToken removes the cached token. Clearing an empty store is not an
	// error.
	ClearToken(ctx context.Context) error
}

// PreferenceStore persists small non-authoritative UI preferences, such as
// the last selected notification provider.
type PreferenceStore interface {
	Preference(ctx context.Context, key string) (value string, ok bool)
	SetPreference(ctx context.Context, key, value string) error
}
