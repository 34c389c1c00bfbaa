package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")
	os.Setenv("PPROF_ENABLED", "true")
	os.Setenv("REDIS_ADDR", "redis:6379")
	os.Setenv("REDIS_DB", "2")
	os.Setenv("SESSION_DEFAULT_TTL_SEC", "3600")
	os.Setenv("SESSION_SWEEP_INTERVAL_SEC", "30")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("MINIO_USE_SSL")
		os.Unsetenv("PPROF_ENABLED")
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("REDIS_DB")
		os.Unsetenv("SESSION_DEFAULT_TTL_SEC")
		os.Unsetenv("SESSION_SWEEP_INTERVAL_SEC")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.True(t, cfg.PprofEnabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 3600, cfg.Session.DefaultTTLSec)
	assert.Equal(t, 30, cfg.Session.SweepIntervalSec)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("PPROF_ENABLED")
	os.Unsetenv("SESSION_DEFAULT_TTL_SEC")
	os.Unsetenv("SESSION_SWEEP_INTERVAL_SEC")

	cfg := Load()

	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.PprofEnabled)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, 86400, cfg.Session.DefaultTTLSec)
	assert.Equal(t, 60, cfg.Session.SweepIntervalSec)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
