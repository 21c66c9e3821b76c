// Package cache stores rendered export artifacts by content key.
//
// Two implementations are provided: Memory, a sharded in-process cache
// with TTL expiry, and Redis, backed by go-redis. Both are safe for
// concurrent use.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Cache is a byte-valued key store with per-entry expiry. A ttl of zero
// or less means the implementation's default.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
