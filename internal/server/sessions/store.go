// Package sessions keeps the mapping from opaque session tokens to the
// usernames they authenticate. Sessions are volatile: they live in the
// Store and are gone after a restart.
package sessions

import (
	"context"
	"sync"
)

// Store persists token to username bindings.
type Store interface {
	// Get returns the username bound to token, if any.
	Get(ctx context.Context, token string) (string, bool, error)
	// SetIfAbsent binds token to username unless token is already bound.
	// It reports whether the binding was stored.
	SetIfAbsent(ctx context.Context, token, username string) (bool, error)
	// Delete removes token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
	// Len returns the number of live sessions.
	Len() int
}

// MemoryStore is a Store backed by a map. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	username, ok := s.sessions[token]
	return username, ok, nil
}

func (s *MemoryStore) SetIfAbsent(_ context.Context, token, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; ok {
		return false, nil
	}
	s.sessions[token] = username
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
