package imageresize

import (
	"context"
	"time"
)

// NoopCache is a no-operation implementation of Cache. Every lookup misses, so
// each resolution queries backend metadata.
type NoopCache struct{}

// NewNoopCache creates a new no-operation cache
func NewNoopCache() Cache {
	return &NoopCache{}
}

// Get always misses
func (n *NoopCache) Get(ctx context.Context, key string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

// Put does nothing and returns nil
func (n *NoopCache) Put(ctx context.Context, key string, ts time.Time, ttl time.Duration) error {
	return nil
}

// Delete does nothing and returns nil
func (n *NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}
