// Package cache provides the key-value store used for short-lived lookups.
package cache

import (
	"context"
	"time"
)

// Store is a string key-value cache with per-entry expiration
type Store interface {
	// Get returns the value and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Kind names the backend for health output
	Kind() string
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
