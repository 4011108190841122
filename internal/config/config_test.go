package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CONFIG_FILE", "APP_ENV", "PORT", "LOG_LEVEL", "IS_PROD", "SECRET_KEY",
		"DB_DRIVER", "DB_DSN", "REDIS_ADDR", "REDIS_PASS", "REDIS_DB",
		"PRICE_API_URL", "PRICE_TIMEOUT", "SESSION_TTL", "COOKIE_SECURE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DefaultSecretKey, cfg.Secret)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "cryptonest.db", cfg.Database.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 10*time.Second, cfg.Prices.GetTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Session.GetTTL())
	assert.False(t, cfg.IsProd)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PRICE_TIMEOUT", "3s")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 3*time.Second, cfg.Prices.GetTimeout())
	assert.True(t, cfg.IsProd)
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cryptonest.toml")
	content := `
port = "9000"
secret_key = "from-file"

[database]
driver = "postgres"
dsn = "postgres://u:p@localhost:5432/cryptonest"

[session]
ttl = "2h"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, "from-file", cfg.Secret)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Session.GetTTL())
}

func TestLoadConfig_BadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("PRICE_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, 10*time.Second, cfg.Prices.GetTimeout())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.toml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}
