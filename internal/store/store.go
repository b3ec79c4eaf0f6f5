// Package store persists raw payloads fetched from external siting sources.
// Session state is deliberately not stored: a simulation run lives and dies
// in memory, but upstream catalogs and property details are slow and flaky,
// so their responses are cached with a TTL.
package store

import (
	"context"
	"time"
)

// Store is the payload cache behind the siting-service client and the file
// importers.
type Store interface {
	// GetPayload returns the cached payload for key if present and fresh.
	GetPayload(ctx context.Context, key string) ([]byte, bool, error)

	// SetPayload caches a payload under key for ttl.
	SetPayload(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// DeleteExpired removes stale entries and reports how many were dropped.
	DeleteExpired(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Cache adapts a Store to the fixed-TTL Get/Put shape the siting-service
// client expects.
type Cache struct {
	store Store
	ttl   time.Duration
}

// NewCache wraps a Store with a fixed TTL for writes.
func NewCache(s Store, ttl time.Duration) *Cache {
	return &Cache{store: s, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.store.GetPayload(ctx, key)
}

func (c *Cache) Put(ctx context.Context, key string, payload []byte) error {
	return c.store.SetPayload(ctx, key, payload, c.ttl)
}
