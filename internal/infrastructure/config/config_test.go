package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tradedoc-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 8*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "tradedoc", cfg.Cache.KeyPrefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRADEDOC_APP_PORT", "9090")
	t.Setenv("TRADEDOC_DATABASE_HOST", "db.internal")
	t.Setenv("TRADEDOC_JWT_EXPIRATION", "30m")
	t.Setenv("TRADEDOC_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadValidation(t *testing.T) {
	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		t.Setenv("TRADEDOC_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("TRADEDOC_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		assert.ErrorContains(t, err, "max_idle_conns")
	})

	t.Run("production requires a jwt secret", func(t *testing.T) {
		t.Setenv("TRADEDOC_APP_ENV", "production")

		_, err := Load()
		assert.ErrorContains(t, err, "jwt.secret")
	})

	t.Run("production rejects wildcard cors origins", func(t *testing.T) {
		t.Setenv("TRADEDOC_APP_ENV", "production")
		t.Setenv("TRADEDOC_JWT_SECRET", "test-secret-at-least-32-characters!!")
		t.Setenv("TRADEDOC_DATABASE_PASSWORD", "secret")
		t.Setenv("TRADEDOC_DATABASE_SSLMODE", "require")
		t.Setenv("TRADEDOC_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		assert.ErrorContains(t, err, "cors_allow_origins")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "tradedoc",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", r.Addr())
}
