package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blocksocial/api/internal/pkg/log"
	platformconfig "github.com/blocksocial/api/internal/platform/config"
)

// Service wraps a Cache backend with JSON marshaling and key prefixing. A
// nil *Service is a valid no-op, so callers never need nil checks beyond
// construction.
type Service struct {
	backend Cache
	prefix  string
	ttl     time.Duration
}

// NewService builds a Service from config, picking the redis or memory
// backend. Returns nil (disabled cache) when cfg.Enabled is false or the
// redis backend is unreachable; a broken cache must never take the service
// down.
func NewService(cfg *platformconfig.CacheConfig) *Service {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	var backend Cache
	switch cfg.Backend {
	case "redis":
		redisCache, err := NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn("Cache disabled, redis unreachable: %v", err)
			return nil
		}
		backend = redisCache
	default:
		backend = NewMemoryCache()
	}

	return &Service{
		backend: backend,
		prefix:  cfg.Prefix,
		ttl:     cfg.TTL,
	}
}

// GetCached unmarshals the cached value for key into out.
func (s *Service) GetCached(ctx context.Context, key string, out interface{}) error {
	if s == nil {
		return ErrKeyNotFound
	}
	raw, err := s.backend.Get(ctx, s.prefix+key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode cached value for %s: %w", key, err)
	}
	return nil
}

// CacheData stores value under key with the configured TTL.
func (s *Service) CacheData(ctx context.Context, key string, value interface{}) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	return s.backend.Set(ctx, s.prefix+key, raw, s.ttl)
}

// Invalidate drops the cached value for key.
func (s *Service) Invalidate(ctx context.Context, key string) error {
	if s == nil {
		return nil
	}
	return s.backend.Delete(ctx, s.prefix+key)
}

// Close releases the backend.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	return s.backend.Close()
}
