// Package revocation keeps the ids of logged-out access tokens until the
// tokens would have expired on their own.
package revocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portal/pkg/platform/sentinel"
)

type Clock func() time.Time

// A revocation without a remaining lifetime would never be purged.
func validateTTL(ttl time.Duration) error {
	if ttl > 0 {
		return nil
	}
	return fmt.Errorf("revocation ttl %s: %w", ttl, sentinel.ErrInvalidState)
}

// InMemoryBlacklist is the single-process blacklist used when neither Redis
// nor Postgres is configured.
type InMemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	clock   Clock
}

func NewInMemory(clock Clock) *InMemoryBlacklist {
	if clock == nil {
		clock = time.Now
	}
	return &InMemoryBlacklist{entries: make(map[string]time.Time), clock: clock}
}

func (b *InMemoryBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = b.clock().Add(ttl)
	return nil
}

func (b *InMemoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	expiresAt, ok := b.entries[jti]
	if !ok {
		return false, nil
	}
	if !b.clock().Before(expiresAt) {
		delete(b.entries, jti)
		return false, nil
	}
	return true, nil
}
