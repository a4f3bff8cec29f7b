package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, "linkwatch_session", cfg.AuthCookieName)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SWEEP_INTERVAL", "10s")
	t.Setenv("PROBE_TIMEOUT", "2s")
	t.Setenv("DATABASE_DSN", "env-dsn")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.RunAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.SweepInterval)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, "env-dsn", cfg.DatabaseDSN)
}

func TestConfigRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := New(WithDisableFlagsParsing(true))
	require.Error(t, err)
}
