package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 500, cfg.Rules.TargetScore)
	assert.Equal(t, 7, cfg.Rules.HandSize)
	assert.Equal(t, 3*time.Second, cfg.Rules.CatchWindow)
	assert.Equal(t, "lastcard_actions", cfg.HistorianQueue)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TARGET_SCORE", "250")
	t.Setenv("CATCH_WINDOW_MS", "1500")
	t.Setenv("ROOM_IDLE_TTL", "10m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("HISTORIAN_FLUSH_MS", "500")
	t.Setenv("TOKEN_EXPIRE_TIME", "never")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 250, cfg.Rules.TargetScore)
	assert.Equal(t, 1500*time.Millisecond, cfg.Rules.CatchWindow)
	assert.Equal(t, 10*time.Minute, cfg.RoomIdleTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.HistorianFlush)
	assert.Equal(t, time.Duration(0), cfg.TokenExpire)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("ROOM_IDLE_TTL", "soon")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.RoomIdleTTL)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
}

func TestDatabaseURLFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_USER", "lc")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "")
	t.Setenv("PG_DATABASE", "lastcard")

	assert.Equal(t, "postgres://lc:pw@db:5432/lastcard", Load().DatabaseURL)

	t.Setenv("DATABASE_URL", "postgres://other/db")
	assert.Equal(t, "postgres://other/db", Load().DatabaseURL)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HAND_SIZE=5\n"), 0o600))
	t.Setenv("HAND_SIZE", "")
	os.Unsetenv("HAND_SIZE")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Rules.HandSize)
	os.Unsetenv("HAND_SIZE")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestParseTokenExpireTime(t *testing.T) {
	d, err := ParseTokenExpireTime("72h")
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, d)

	d, err = ParseTokenExpireTime("0")
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = ParseTokenExpireTime("-1h")
	assert.Error(t, err)
	_, err = ParseTokenExpireTime("tomorrow")
	assert.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://*", "http://*"}, Defaults().AllowedOrigins)

	t.Setenv("ALLOWED_ORIGINS", " https://lastcard.example , ,http://localhost:3000")
	cfg := Load()
	assert.Equal(t, []string{"https://lastcard.example", "http://localhost:3000"}, cfg.AllowedOrigins)
}
