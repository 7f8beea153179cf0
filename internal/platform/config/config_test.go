package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("DB_TYPE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DBMemory, cfg.DBType)
	assert.True(t, cfg.AuthDevHeaders)
	assert.NotEmpty(t, cfg.APIKey)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, 100, cfg.RateLimitRPM)
}

func TestLoadRequiresBackendSettings(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")

	t.Setenv("DB_TYPE", "cassandra")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown DB_TYPE")
}

func TestLoadProductionGuards(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("DB_TYPE", "dynamodb")
	t.Setenv("API_KEY", "k")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("AUTH_DEV_HEADERS", "true")
	_, err = Load()
	assert.ErrorContains(t, err, "AUTH_DEV_HEADERS")

	t.Setenv("AUTH_DEV_HEADERS", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AuthDevHeaders)
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsSlice("ALLOWED_ORIGINS", nil))
}

func TestLoadRejectsNonPositiveIntervals(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("DB_TYPE", "memory")
	t.Setenv("WORKER_INTERVAL_SEC", "-1")
	_, err := Load()
	assert.ErrorContains(t, err, "WORKER_INTERVAL_SEC")

	t.Setenv("WORKER_INTERVAL_SEC", "30")
	t.Setenv("STORE_OP_TIMEOUT_MS", "-5")
	_, err = Load()
	assert.ErrorContains(t, err, "STORE_OP_TIMEOUT_MS")
}
