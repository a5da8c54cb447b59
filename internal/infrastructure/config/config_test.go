package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	return dir
}

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "dvdrental", cfg.Database.DBName)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, uint32(5), cfg.MQ.Breaker.FailureThreshold)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoadFrom_FileAndEnvOverrides(t *testing.T) {
	dir := writeConfig(t, "config.yaml", `
server:
  port: 8080
database:
  driver: mysql
  host: db.internal
  port: 3306
  user: app
  dbname: sakila
redis:
  enabled: true
`)
	t.Setenv("DVDRENTAL_DATABASE_PASSWORD", "s3cret")
	t.Setenv("DVDRENTAL_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadFrom_LegacyEnvNames(t *testing.T) {
	t.Setenv("DB_HOST", "legacy-host")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "pagila")
	t.Setenv("PORT", "4000")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "legacy-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "pagila", cfg.Database.DBName)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadFrom_PrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("DB_HOST", "legacy-host")
	t.Setenv("DVDRENTAL_DATABASE_HOST", "prefixed-host")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "prefixed-host", cfg.Database.Host)
}

func TestLoadFrom_EnvSpecificFile(t *testing.T) {
	dir := writeConfig(t, "config.staging.yaml", "server:\n  port: 9090\n")
	t.Setenv("DVDRENTAL_ENV", "staging")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadFrom_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"unknown driver", "database:\n  driver: sqlite\n"},
		{"pool size", "database:\n  max_open_conns: 0\n"},
		{"mq without url", "mq:\n  enabled: true\n  url: \"\"\n"},
		{"sample ratio", "tracing:\n  sample_ratio: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, "config.yaml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := DatabaseConfig{Driver: DriverPostgres, Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable TimeZone=UTC", pg.DSN())

	my := DatabaseConfig{Driver: DriverMySQL, Host: "h", Port: 3306, User: "u", Password: "p", DBName: "d", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", my.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
