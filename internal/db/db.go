// Package db defines the key-value facade the service persists counters in.
package db

import (
	"context"
	"time"
)

// Store is the database facade. Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides counter-oriented key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	// IncrByWithTTL increments key and sets ttl only if the key has no expiry
	// yet, in a single round trip. Returns the new value.
	IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
