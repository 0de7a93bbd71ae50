package services

import (
	"context"
	"sync"
	"time"
)

// TokenDenylist records revoked token ids until they would have expired.
type TokenDenylist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

type memoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist keeps revoked ids in process memory. It is only suitable
// for a single instance; use the Redis denylist when running several.
func NewMemoryDenylist() TokenDenylist {
	return &memoryDenylist{entries: map[string]time.Time{}, now: time.Now}
}

func (d *memoryDenylist) Add(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	d.sweep(now)
	if ttl <= 0 {
		return nil
	}
	d.entries[jti] = now.Add(ttl)
	return nil
}

func (d *memoryDenylist) Contains(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.entries[jti]
	if !ok {
		return false, nil
	}
	if !d.now().Before(exp) {
		delete(d.entries, jti)
		return false, nil
	}
	return true, nil
}

func (d *memoryDenylist) sweep(now time.Time) {
	for jti, exp := range d.entries {
		if !now.Before(exp) {
			delete(d.entries, jti)
		}
	}
}
