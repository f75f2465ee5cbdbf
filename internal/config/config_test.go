package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV":    "test",
		"APP_PORT":   "8080",
		"DB_USER":    "magsub",
		"DB_HOST":    "localhost",
		"DB_PORT":    "3306",
		"DB_NAME":    "magsub_test",
		"JWT_SECRET": "test-secret",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	require.Equal(t, "test", cfg.Env)
	assert.Equal(t, 30, cfg.AccessTTLMin)
	assert.Equal(t, 0, cfg.RefreshTTLDays)
	assert.False(t, cfg.RefreshRotate)
	assert.False(t, cfg.RefreshStore)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Empty(t, cfg.DBPass)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("REFRESH_ROTATE", "true")
	t.Setenv("REFRESH_STORE_ENABLED", "1")
	t.Setenv("BCRYPT_COST", "10")

	cfg := Load()
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, 7, cfg.RefreshTTLDays)
	assert.True(t, cfg.RefreshRotate)
	assert.True(t, cfg.RefreshStore)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestEnvBool(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"1", false, true},
		{"yes", false, true},
		{"ON", false, true},
		{"0", true, false},
		{"off", true, false},
		{"banana", true, true}, // unparsable falls back to the default
	}
	for _, tc := range cases {
		t.Run("raw="+tc.raw, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tc.raw)
			assert.Equal(t, tc.want, envBool("TEST_BOOL", tc.def))
		})
	}
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	// TTL is floored at five refill intervals so bucket state outlives the
	// window it accounts for.
	assert.Equal(t, 10*time.Second, rl.TTL)
	assert.Equal(t, "ip_subject_route", rl.KeyStrategy)
}
