package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrKeyNotFound is returned on a cache miss.
	ErrKeyNotFound = errors.New("cache key not found")
	// ErrCacheUnavailable is returned when the backend cannot be reached.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// Cache is the byte-level backend interface. Implementations: redis, memory.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
