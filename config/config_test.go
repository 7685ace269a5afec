package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RECIPEVAULT_DATA_DIR", "RECIPEVAULT_DB_PATH", "RECIPEVAULT_EXPORT_DIR",
		"LLM_API_KEY", "LLM_API_KEY_FILE", "LLM_API_URL", "LLM_MODEL",
		"REDIS_URL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".recipevault"), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "recipevault.db"), cfg.DatabasePath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "exports"), cfg.ExportDir)
	assert.Empty(t, cfg.LLMAPIKey)
	assert.Equal(t, defaultAPIURL, cfg.LLMAPIURL)
	assert.Equal(t, defaultLLMModel, cfg.LLMModel)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECIPEVAULT_DATA_DIR", "/tmp/rv")
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("LLM_MODEL", "test-model")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/rv", cfg.DataDir)
	assert.Equal(t, filepath.Join("/tmp/rv", "recipevault.db"), cfg.DatabasePath)
	assert.Equal(t, "test-key", cfg.LLMAPIKey)
	assert.Equal(t, "test-model", cfg.LLMModel)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigAPIKeyFile(t *testing.T) {
	clearEnv(t)

	keyFile := filepath.Join(t.TempDir(), "api_key")
	require.NoError(t, os.WriteFile(keyFile, []byte("  secret-key \n"), 0o600))
	t.Setenv("LLM_API_KEY_FILE", keyFile)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.LLMAPIKey)
}

func TestLoadConfigEmptyAPIKeyFile(t *testing.T) {
	clearEnv(t)

	keyFile := filepath.Join(t.TempDir(), "api_key")
	require.NoError(t, os.WriteFile(keyFile, []byte("   "), 0o600))
	t.Setenv("LLM_API_KEY_FILE", keyFile)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	t.Run("bad log level", func(t *testing.T) {
		err := ValidateConfig(&Config{
			DataDir: "x", DatabasePath: "x", ExportDir: "x", LogLevel: "loud",
		})
		assert.Error(t, err)
	})

	t.Run("bad redis url", func(t *testing.T) {
		err := ValidateConfig(&Config{
			DataDir: "x", DatabasePath: "x", ExportDir: "x", LogLevel: "info",
			RedisURL: "localhost:6379",
		})
		assert.Error(t, err)
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())
	assert.True(t, IsTest())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
	assert.True(t, IsDevelopment())
}
