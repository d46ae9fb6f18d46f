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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  path: test.db
session:
  store: memory
  ttl_minutes: 30
quiz:
  results_page_size: 5
cors:
  allowed_origins:
    - http://localhost:3000
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "quiz_session", cfg.Session.CookieName)
	assert.Equal(t, 5, cfg.Quiz.ResultsPageSize)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 6000, cfg.RateLimit.MaxRequests)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.FilePath)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
database:
  driver: sqlite
session:
  store: memory
`)
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("SESSION_STORE", "redis")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 14*24*time.Hour, cfg.Session.TTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"driver":    "database:\n  driver: oracle\n",
		"store":     "database:\n  driver: sqlite\nsession:\n  store: file\n",
		"page size": "database:\n  driver: sqlite\nquiz:\n  results_page_size: 0\n",
		"mode":      "server:\n  mode: prod\ndatabase:\n  driver: sqlite\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
