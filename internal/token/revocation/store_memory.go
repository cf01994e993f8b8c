// Package revocation tracks tokens invalidated before their natural expiry.
// Entries only need to live as long as the token would have; after that the
// expiry check rejects the token anyway.
package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemory tracks revoked token IDs in memory. Suitable for single-process
// deployments and tests; multi-replica deployments use the Redis store.
type InMemory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{revoked: make(map[string]time.Time)}
}

// Revoke marks a token ID as revoked until the given expiry.
func (s *InMemory) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gc()
	s.revoked[tokenID] = expiresAt
	return nil
}

// IsRevoked reports whether the token ID has been revoked.
func (s *InMemory) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiry, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return time.Now().Before(expiry), nil
}

// gc drops entries whose token would have expired anyway. Caller holds the
// write lock.
func (s *InMemory) gc() {
	now := time.Now()
	for id, expiry := range s.revoked {
		if now.After(expiry) {
			delete(s.revoked, id)
		}
	}
}
