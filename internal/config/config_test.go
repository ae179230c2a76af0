package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.True(t, cfg.Redis.Enabled)

	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "google", cfg.Gemini.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.FastModel)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.SmartModel)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)

	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Generation.BackoffBase)
	assert.Equal(t, time.Second, cfg.Generation.MinInterval)
	assert.Equal(t, 10<<20, cfg.Image.MaxBytes)
	assert.Equal(t, 2048, cfg.Image.MaxDimension)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("GEMINI_SMART_MODEL", "gemini-exp")
	t.Setenv("GENERATION_MIN_INTERVAL", "250ms")
	t.Setenv("GENERATION_MAX_ATTEMPTS", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini-exp", cfg.Gemini.SmartModel)
	assert.Equal(t, 250*time.Millisecond, cfg.Generation.MinInterval)
	assert.Equal(t, 2, cfg.Generation.MaxAttempts)
}

func TestLoadConfig_GoogleKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "legacy-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.Gemini.APIKey)
}

func TestLoadConfig_MissingKeyFailsFast(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadConfig_File(t *testing.T) {
	content := `
server:
  port: "7070"
  api_keys: ["client-key"]
gemini:
  api_key: "from-file"
  fast_model: "gemini-2.0-flash"
image:
  max_dimension: 1024
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, []string{"client-key"}, cfg.Server.APIKeys)
	assert.Equal(t, "from-file", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.FastModel)
	assert.Equal(t, 1024, cfg.Image.MaxDimension)
}
