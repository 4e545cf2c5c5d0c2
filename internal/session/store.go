// Package session binds opaque tokens to authenticated identities. Tokens are
// issued at login, carried in a cookie, and resolved on every protected
// request.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/civicdesk/internal/domain"
)

// ErrNotFound is returned when a token has no live session.
var ErrNotFound = errors.New("session not found")

// Store persists session bindings.
type Store interface {
	// Create issues a fresh token bound to the identity.
	Create(ctx context.Context, identity domain.Identity) (string, error)
	// Get resolves a token to its identity, ErrNotFound when absent or expired.
	Get(ctx context.Context, token string) (domain.Identity, error)
	// Delete invalidates the session; idempotent.
	Delete(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.NewString()
}

// memoryStore keeps sessions in process memory. Used in tests and when Redis
// is not configured.
type memoryStore struct {
	ttl      time.Duration
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	identity  domain.Identity
	expiresAt time.Time
}

// NewMemoryStore builds an in-memory store. ttl <= 0 means no expiry.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{ttl: ttl, sessions: make(map[string]memorySession)}
}

func (s *memoryStore) Create(_ context.Context, identity domain.Identity) (string, error) {
	token := newToken()
	entry := memorySession{identity: identity}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = entry
	return token, nil
}

func (s *memoryStore) Get(_ context.Context, token string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return domain.Identity{}, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return domain.Identity{}, ErrNotFound
	}
	return entry.identity, nil
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
