package storage

import (
	"context"
	"fmt"

	"github.com/haipham/newsdeck/internal/common"
	"github.com/haipham/newsdeck/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// Fixed keys for locally persisted values.
const (
	tokenKey = "auth_token"

	// PrefNotificationProvider remembers the last selected notification
	// provider between runs. Non-authoritative: the backend channel list is
	// the source of truth.
	PrefNotificationProvider = "notification_provider"
)

// KVEntry represents a key-value pair stored in BadgerDB.
type KVEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

// CredentialStore persists the bearer token and UI preferences in the local
// BadgerHold store. Writes are immediately visible to subsequent reads from
// the same process; replacement is last-writer-wins.
type CredentialStore struct {
	store  *Store
	logger *common.Logger
}

// NewCredentialStore creates a CredentialStore backed by the given store.
func NewCredentialStore(store *Store, logger *common.Logger) *CredentialStore {
	return &CredentialStore{store: store, logger: logger}
}

// Token returns the cached bearer token, or ok=false when none is cached.
func (s *CredentialStore) Token(_ context.Context) (string, bool) {
	var entry KVEntry
	if err := s.store.db.Get(tokenKey, &entry); err != nil {
		if err != badgerhold.ErrNotFound {
			s.logger.Warn().Err(err).Msg("Failed to read cached token")
		}
		return "", false
	}
	if entry.Value == "" {
		return "", false
	}
	return entry.Value, true
}

// SetToken caches a token, superseding any previous one.
func (s *CredentialStore) SetToken(_ context.Context, token string) error {
	entry := KVEntry{Key: tokenKey, Value: token}
	if err := s.store.db.Upsert(tokenKey, &entry); err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}
	return nil
}

// ClearToken removes the cached token. Clearing an empty store is a no-op.
func (s *CredentialStore) ClearToken(_ context.Context) error {
	err := s.store.db.Delete(tokenKey, KVEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Preference returns a persisted preference value.
func (s *CredentialStore) Preference(_ context.Context, key string) (string, bool) {
	var entry KVEntry
	if err := s.store.db.Get("pref:"+key, &entry); err != nil {
		return "", false
	}
	return entry.Value, entry.Value != ""
}

// SetPreference persists a preference value.
func (s *CredentialStore) SetPreference(_ context.Context, key, value string) error {
	entry := KVEntry{Key: "pref:" + key, Value: value}
	if err := s.store.db.Upsert("pref:"+key, &entry); err != nil {
		return fmt.Errorf("failed to set preference '%s': %w", key, err)
	}
	return nil
}

var (
	_ interfaces.CredentialStore = (*CredentialStore)(nil)
	_ interfaces.PreferenceStore = (*CredentialStore)(nil)
)
