// Package memory provides in-memory implementations of outbound ports.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/aoldacloud/console/internal/domain/session"
)

// Default cleanup interval for evicting expired entries from the cache.
const DefaultCleanupInterval = 1 * time.Minute

// SessionStore implements session.Store on top of an expiring in-memory
// cache. Expiry is enforced at read time by the cache; the sweep goroutine
// only reclaims memory. Safe for concurrent use.
type SessionStore struct {
	cache *gocache.Cache
}

// NewSessionStore creates a session store with the default cleanup interval.
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithConfig(DefaultCleanupInterval)
}

// NewSessionStoreWithConfig creates a session store with a custom cleanup interval.
func NewSessionStoreWithConfig(cleanupInterval time.Duration) *SessionStore {
	return &SessionStore{
		cache: gocache.New(session.DefaultTTL, cleanupInterval),
	}
}

// Put stores a record under the token with the given TTL, replacing any
// existing entry and restarting its countdown.
func (s *SessionStore) Put(ctx context.Context, token string, record *session.Record, ttl time.Duration) error {
	// Store a copy to keep cached records immutable from the caller's view.
	rec := *record
	s.cache.Set(token, &rec, ttl)
	return nil
}

// Get retrieves the record for a token.
// Returns session.ErrSessionNotFound when absent or expired.
func (s *SessionStore) Get(ctx context.Context, token string) (*session.Record, error) {
	v, ok := s.cache.Get(token)
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	rec, ok := v.(*session.Record)
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	out := *rec
	return &out, nil
}

// Delete removes a record. Deleting a missing token is a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.cache.Delete(token)
	return nil
}

// Size returns the number of entries currently stored, including entries
// that have expired but not yet been swept. Useful for health checks.
func (s *SessionStore) Size() int {
	return s.cache.ItemCount()
}

// Compile-time interface verification.
var _ session.Store = (*SessionStore)(nil)
