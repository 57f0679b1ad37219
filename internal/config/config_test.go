package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alert-server.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://localhost/alerts
jwt:
  secret: test-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fleet-alert-server", cfg.Server.Name)
	assert.Equal(t, "America/Lima", cfg.Server.Timezone)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://localhost/alerts
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "jwt secret is required")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://override/alerts")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("EXPO_PUSH_URL", "http://localhost:9999/push")

	path := writeConfig(t, `
database:
  dsn: postgres://file/alerts
jwt:
  secret: file-secret
push:
  enabled: true
  url: https://exp.host/--/api/v2/push/send
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://override/alerts", cfg.Database.DSN)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "http://localhost:9999/push", cfg.Push.URL)
	assert.True(t, cfg.Push.Enabled)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Timezone: "Mars/Olympus"}}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Server.Timezone = "America/Lima"
	assert.Equal(t, "America/Lima", cfg.Location().String())
}
