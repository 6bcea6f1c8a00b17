package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
env: local
http_server:
  address: ":8081"
database:
  driver: sqlite
  sqlite_path: /tmp/test.db
  max_open_conns: 2
url_shortener:
  base_url: "https://sho.rt/"
  alias_length: 8
analytics:
  worker_count: 1
  stats_report_interval: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8081", cfg.HTTPServer.Address)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, 2, cfg.Database.MaxOpenConns)
	assert.Equal(t, "https://sho.rt", cfg.URLShortener.BaseURL)
	assert.Equal(t, 8, cfg.URLShortener.AliasLength)
	assert.Equal(t, 1, cfg.Analytics.WorkerCount)
	assert.Equal(t, 30*time.Second, cfg.Analytics.StatsReportInterval)

	// defaults fill what the file leaves out
	assert.Equal(t, 10, cfg.URLShortener.MaxRetries)
	assert.Equal(t, 1000, cfg.Analytics.BufferSize)
	assert.Equal(t, 1, cfg.Analytics.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Redis.DialTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Redis.ReadTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Redis.WriteTimeout)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("BASE_URL", "http://localhost:9000/")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "http://localhost:9000", cfg.URLShortener.BaseURL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 6, cfg.URLShortener.AliasLength)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.Equal(t, ":3000", cfg.HTTPServer.Address)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.HTTPServer.AllowedOrigins)
}
