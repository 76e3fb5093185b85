package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPublicKey = "-----BEGIN PUBLIC KEY-----\ntest\n-----END PUBLIC KEY-----"

func TestLoadFromMap(t *testing.T) {
	t.Run("defaults apply when keys are absent", func(t *testing.T) {
		cfg, err := LoadFromMap(map[string]string{
			"JWT_PUBLIC_KEY": testPublicKey,
		})
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "memory", cfg.Database.Type)
		assert.Equal(t, time.Hour, cfg.Cache.TTL)
		assert.False(t, cfg.Cache.Enabled)
	})

	t.Run("explicit values win over defaults", func(t *testing.T) {
		cfg, err := LoadFromMap(map[string]string{
			"JWT_PUBLIC_KEY": testPublicKey,
			"SERVER_PORT":    "9090",
			"DB_TYPE":        "postgresql",
			"CACHE_ENABLED":  "true",
			"CACHE_BACKEND":  "redis",
			"CACHE_TTL":      "10m",
			"REDIS_ADDRESS":  "redis:6379",
		})
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "postgresql", cfg.Database.Type)
		assert.Equal(t, "redis", cfg.Cache.Backend)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, "redis:6379", cfg.Cache.Redis.Address)
	})

	t.Run("missing public key fails validation", func(t *testing.T) {
		_, err := LoadFromMap(map[string]string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_PUBLIC_KEY")
	})

	t.Run("unknown database type fails validation", func(t *testing.T) {
		_, err := LoadFromMap(map[string]string{
			"JWT_PUBLIC_KEY": testPublicKey,
			"DB_TYPE":        "mongodb",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_TYPE")
	})
}
