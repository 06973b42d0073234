package session

import (
	"context"
	"sync"
	"time"

	"github.com/joy095/salon/models/user_models"
)

// MemoryStore is a map-backed Store for tests and single-node development.
// Unlike RedisStore it keys sessions by the raw token, which keeps fixtures
// simple: tests do not need signed JWTs to exercise the guard.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

type memorySession struct {
	identity user_models.Identity
	expires  time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memorySession)}
}

func (s *MemoryStore) Hydrate(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	return &Session{Token: token, Identity: entry.identity}, nil
}

func (s *MemoryStore) Login(_ context.Context, identity user_models.Identity, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{identity: identity, expires: time.Now().Add(24 * time.Hour)}
	return nil
}

// LoginExpiring stores a session that expires at the given time. Test helper.
func (s *MemoryStore) LoginExpiring(identity user_models.Identity, token string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{identity: identity, expires: expires}
}

func (s *MemoryStore) Logout(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
