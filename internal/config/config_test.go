package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "SESSION_TTL", "RATE_LIMIT", "RATE_WINDOW", "CACHE_TTL", "SLOW_QUERY_THRESHOLD", "COOKIE_SECURE", "IS_PROD", "REDIS_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, time.Hour, cfg.RateWindow)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.SlowQueryThreshold)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.IsProd)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("SLOW_QUERY_THRESHOLD", "not-a-duration")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("DB_USER", "fan")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "mariadb")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "club")

	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.SlowQueryThreshold, "invalid values fall back to the default")
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "fan:pw@tcp(mariadb:3307)/club?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DSN())
}
