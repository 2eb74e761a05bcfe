package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so a developer .env does
// not leak in.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)
	for _, k := range []string{"APP_ENV", "LISTEN_ADDR", "DATABASE_URL", "RATING_WORKERS", "RATING_MOCK_FAILURE_RATE", "RATING_MOCK_MIN_LATENCY", "RATING_MOCK_MAX_LATENCY", "SEED_DEMO_DATA"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 0, cfg.RatingWorkers)
	assert.Equal(t, 0.1, cfg.MockFailureRate)
	assert.Equal(t, time.Second, cfg.MockMinLatency)
	assert.Equal(t, 2*time.Second, cfg.MockMaxLatency)
	assert.False(t, cfg.SeedDemo)
}

func TestLoadOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("RATING_WORKERS", "3")
	t.Setenv("RATING_REFRESH_INTERVAL", "15m")
	t.Setenv("RATING_MOCK_FAILURE_RATE", "0")
	t.Setenv("RATING_MOCK_MIN_LATENCY", "0s")
	t.Setenv("RATING_MOCK_MAX_LATENCY", "0s")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("RATING_MAX_AGE", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 3, cfg.RatingWorkers)
	assert.Equal(t, 15*time.Minute, cfg.RatingRefreshInterval)
	assert.Equal(t, 0.0, cfg.MockFailureRate)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, 7*24*time.Hour, cfg.RatingMaxAge)
}

func TestLoadDotEnv(t *testing.T) {
	dir := inTempDir(t)
	// godotenv never overrides a variable that is already set, even to "".
	t.Setenv("LISTEN_ADDR", "")
	require.NoError(t, os.Unsetenv("LISTEN_ADDR"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LISTEN_ADDR=:7070\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ListenAddr)
}

func TestLoadRejectsBadFailureRate(t *testing.T) {
	inTempDir(t)
	t.Setenv("RATING_MOCK_FAILURE_RATE", "1.5")
	_, err := Load()
	assert.Error(t, err)
}
