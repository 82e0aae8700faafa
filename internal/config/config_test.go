package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8800", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Sandbox config
	assert.Equal(t, "npm install --no-audit --no-fund", cfg.Sandbox.InstallCommand)
	assert.Equal(t, "npm run dev", cfg.Sandbox.DevCommand)
	assert.Equal(t, "/bin/bash", cfg.Sandbox.ShellCommand)

	// Resolver config
	assert.False(t, cfg.Resolver.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Resolver.Timeout)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8800", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":             "9000",
		"HOST":             "127.0.0.1",
		"SANDBOX_DIR":      "/var/sandbox",
		"INSTALL_CMD":      "pnpm install",
		"DEV_CMD":          "pnpm dev",
		"RESOLVER_ENABLED": "true",
		"RESOLVER_TIMEOUT": "2s",
		"LOG_LEVEL":        "debug",
		"LOG_DEV":          "true",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}
	defer func() {
		for k := range envVars {
			os.Unsetenv(k)
		}
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "/var/sandbox", cfg.Sandbox.BaseDir)
	assert.Equal(t, "pnpm install", cfg.Sandbox.InstallCommand)
	assert.Equal(t, "pnpm dev", cfg.Sandbox.DevCommand)
	assert.True(t, cfg.Resolver.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Resolver.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}
