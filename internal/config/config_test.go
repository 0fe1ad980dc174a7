package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "TOKEN_TTL", "BCRYPT_COST"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", DriverSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/tasks.db")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("QUERY_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "/tmp/tasks.db", cfg.SQLitePath)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.QueryTimeout)
}

func TestConfig_RequireJWTSecret(t *testing.T) {
	t.Run("unset falls back to the placeholder and is rejected", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		cfg := Load()
		assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
		assert.ErrorIs(t, cfg.RequireJWTSecret(), ErrInsecureJWTSecret)
	})

	t.Run("explicit placeholder is rejected", func(t *testing.T) {
		t.Setenv("JWT_SECRET", DefaultJWTSecret)
		assert.ErrorIs(t, Load().RequireJWTSecret(), ErrInsecureJWTSecret)
	})

	t.Run("empty secret is rejected", func(t *testing.T) {
		assert.ErrorIs(t, Config{}.RequireJWTSecret(), ErrInsecureJWTSecret)
	})

	t.Run("configured secret is accepted", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cr3t-signing-key")
		cfg := Load()
		require.NoError(t, cfg.RequireJWTSecret())
		assert.Equal(t, "s3cr3t-signing-key", cfg.JWTSecret)
	})
}
