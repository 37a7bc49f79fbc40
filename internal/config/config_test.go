package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "HOST", "ENV", "PUBLIC_URL", "ALLOWED_ORIGINS", "MAX_PLAYERS", "RATE_LIMIT_PER_SECOND"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := FromEnv()

	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.AllowsAnyOrigin())
	assert.Equal(t, 8, cfg.Game.MaxPlayers)
	assert.Equal(t, 3, cfg.Game.MaxRounds)
	assert.Equal(t, 2, cfg.Game.StrokesPerTurn)
	assert.Equal(t, 10*time.Second, cfg.Game.GeneratorTimeout)
	assert.Equal(t, float64(10), cfg.Transport.RateLimitPerSecond)
	assert.Empty(t, cfg.Server.PublicURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("PUBLIC_URL", "https://play.example.com/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("MAX_PLAYERS", "12")
	t.Setenv("MAX_ROUNDS", "not-a-number")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("GENERATOR_TIMEOUT_SECONDS", "3")

	cfg := FromEnv()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://play.example.com", cfg.Server.PublicURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.AllowsAnyOrigin())
	assert.Equal(t, 12, cfg.Game.MaxPlayers)
	assert.Equal(t, 3, cfg.Game.MaxRounds, "unparsable values fall back to the default")
	assert.Equal(t, 2.5, cfg.Transport.RateLimitPerSecond)
	assert.Equal(t, 3*time.Second, cfg.Game.GeneratorTimeout)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=json\nLOG_LEVEL=debug\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	// Keep the variables out of the process environment once the test ends.
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("LOG_FORMAT")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "warn", cfg.Logging.Level, "the environment wins over .env")
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	_, err = Load()
	assert.NoError(t, err)
}
