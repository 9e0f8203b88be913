package service

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	apperrors "github.com/farmapp/licensing/internal/errors"
)

// SessionStore manages authenticated admin sessions. Validity of a token is
// a pure function of the stored session record.
type SessionStore interface {
	// Create starts a new session and returns its opaque token.
	Create() (string, error)

	// Valid reports whether the token belongs to a live session.
	Valid(token string) bool

	// Destroy ends the session. Unknown tokens are a no-op.
	Destroy(token string)
}

// memorySessionStore keeps sessions in process memory. Sessions do not
// survive a restart, which logs every operator out.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

// Create generates a 32-byte random token and records its expiry.
func (s *memorySessionStore) Create() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", apperrors.Wrap(err, "failed to generate session token")
	}
	token := base64.URLEncoding.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.sessions[token] = s.now().Add(s.ttl)

	return token, nil
}

// Valid reports whether the token belongs to a live session. Expired
// sessions are removed on sight.
func (s *memorySessionStore) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.sessions[token]
	if !ok {
		return false
	}
	if s.now().After(expiresAt) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Destroy ends the session.
func (s *memorySessionStore) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// evictExpired removes expired sessions. Caller must hold the lock.
func (s *memorySessionStore) evictExpired() {
	now := s.now()
	for token, expiresAt := range s.sessions {
		if now.After(expiresAt) {
			delete(s.sessions, token)
		}
	}
}

// NewMemorySessionStore creates an in-memory session store with the given TTL.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}
