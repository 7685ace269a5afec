// Package config loads the application configuration from the environment,
// with an optional .env file for development setups.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Where local state lives
	DataDir      string
	DatabasePath string
	ExportDir    string

	// Recipe generation API
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string

	// Optional Redis backing for generation drafts
	RedisURL string

	// Logging
	LogLevel string
}

const (
	defaultAPIURL   = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel = "gpt-4o-mini"
)

// LoadConfig creates a Config from environment variables, applying
// defaults for anything unset. A .env file in the working directory is
// loaded first when present.
func LoadConfig() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.DataDir = os.Getenv("RECIPEVAULT_DATA_DIR")
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".recipevault")
	}

	cfg.DatabasePath = os.Getenv("RECIPEVAULT_DB_PATH")
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "recipevault.db")
	}

	cfg.ExportDir = os.Getenv("RECIPEVAULT_EXPORT_DIR")
	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(cfg.DataDir, "exports")
	}

	key, err := loadAPIKey()
	if err != nil {
		return nil, err
	}
	cfg.LLMAPIKey = key

	cfg.LLMAPIURL = os.Getenv("LLM_API_URL")
	if cfg.LLMAPIURL == "" {
		cfg.LLMAPIURL = defaultAPIURL
	}

	cfg.LLMModel = os.Getenv("LLM_MODEL")
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultLLMModel
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadAPIKey reads the generation API key from LLM_API_KEY, falling back to
// a secret file named by LLM_API_KEY_FILE. An empty key is allowed: every
// feature except generation works without one.
func loadAPIKey() (string, error) {
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		return key, nil
	}

	keyFile := os.Getenv("LLM_API_KEY_FILE")
	if keyFile == "" {
		return "", nil
	}

	content, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}
	key := strings.TrimSpace(string(content))
	if key == "" {
		return "", fmt.Errorf("API key file is empty")
	}
	return key, nil
}

// EnsureDataDir creates the data directory when it does not exist yet.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o755)
}
