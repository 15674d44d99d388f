package storage

import (
	"context"
	"sync"

	"github.com/haipham/newsdeck/internal/interfaces"
)

// MemoryCredentialStore is an in-memory CredentialStore for tests and
// ephemeral sessions. Safe for concurrent use.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	token string
	prefs map[string]string
}

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{prefs: make(map[string]string)}
}

// Token returns the cached token, or ok=false when empty.
func (s *MemoryCredentialStore) Token(_ context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetToken replaces the cached token.
func (s *MemoryCredentialStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// ClearToken removes the cached token.
func (s *MemoryCredentialStore) ClearToken(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Preference returns a stored preference value.
func (s *MemoryCredentialStore) Preference(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.prefs[key]
	return v, ok && v != ""
}

// SetPreference stores a preference value.
func (s *MemoryCredentialStore) SetPreference(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[key] = value
	return nil
}

var (
	_ interfaces.CredentialStore = (*MemoryCredentialStore)(nil)
	_ interfaces.PreferenceStore = (*MemoryCredentialStore)(nil)
)
