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
	t.Helper()
	for k := range defaults {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "products", cfg.ServiceName)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
	assert.Zero(t, cfg.RateLimitPerMin)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, 3*time.Second, cfg.FeedTimeout)
	assert.False(t, cfg.PollFeed())
}

func TestLoad_FeedPolling(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEED_URL", "http://feed.local/api/products/feed.csv")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.PollFeed(), "no interval")

	t.Setenv("FEED_POLL_INTERVAL", "30s")
	cfg, err = Load(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.PollFeed())
	assert.Equal(t, 30*time.Second, cfg.FeedPollInterval)

	t.Setenv("FEED_POLL_INTERVAL", "-1s")
	_, err = Load(t.TempDir())
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := "PORT=7000\nRATE_LIMIT_PER_MIN=30\nSHUTDOWN_TIMEOUT=3s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	t.Setenv("PORT", "9000")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_MetricsRequireToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("METRICS_ENABLED", "true")

	_, err := Load(t.TempDir())
	require.Error(t, err)

	t.Setenv("METRICS_TOKEN", "s3cret")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.MetricsEnabled)
}
