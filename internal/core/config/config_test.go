package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(writeYAML(t, "db:\n  driver: memory\n"))
	require.NoError(t, err)

	assert.Equal(t, "signup-api", c.App.Name)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, int64(300), c.App.HTTP.MaxConcurrent)
	assert.Equal(t, 10*time.Second, c.RequestTimeout())
	assert.Equal(t, 5*time.Second, c.QueryTimeout())
	assert.Equal(t, 10*time.Minute, c.ExistsTTL())
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "argon2id", c.Password.Algorithm)
	assert.Equal(t, uint32(64*1024), c.Password.Argon2.MemoryKB)
	assert.Equal(t, uint8(1), c.Password.Argon2.Threads)
	assert.False(t, c.Redis.Enabled)
}

func TestLoad_FileValues(t *testing.T) {
	c, err := Load(writeYAML(t, `
app:
  http:
    port: 9090
    allowOrigins: ["https://example.com"]
log:
  level: debug
  json: true
db:
  driver: postgres
  dsn: postgres://u:p@db:5432/app
  queryTimeoutSec: 2
redis:
  enabled: true
  addr: redis:6379
  existsTTLSec: 60
password:
  algorithm: bcrypt
  bcryptCost: 12
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, []string{"https://example.com"}, c.App.HTTP.AllowOrigins)
	assert.True(t, c.Log.JSON)
	assert.Equal(t, "postgres://u:p@db:5432/app", c.DB.DSN)
	assert.Equal(t, 2*time.Second, c.QueryTimeout())
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Redis.Addr)
	assert.Equal(t, time.Minute, c.ExistsTTL())
	assert.Equal(t, "bcrypt", c.Password.Algorithm)
	assert.Equal(t, 12, c.Password.BcryptCost)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_DB_DSN", "postgres://env@db/app")
	t.Setenv("APP_APP_HTTP_PORT", "7070")

	c, err := Load(writeYAML(t, "db:\n  driver: postgres\n"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env@db/app", c.DB.DSN)
	assert.Equal(t, 7070, c.App.HTTP.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeYAML(t, "db:\n  driver: oracle\n"))
	assert.ErrorContains(t, err, "unsupported db.driver")

	_, err = Load(writeYAML(t, "db:\n  driver: postgres\n"))
	assert.ErrorContains(t, err, "db.dsn is required")

	_, err = Load(writeYAML(t, "db:\n  driver: memory\nredis:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "redis.addr is required")
}
