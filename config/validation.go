package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that the loaded configuration is usable.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.DataDir == "" {
		errs = append(errs, "data directory must not be empty")
	}
	if cfg.DatabasePath == "" {
		errs = append(errs, "database path must not be empty")
	}
	if cfg.ExportDir == "" {
		errs = append(errs, "export directory must not be empty")
	}
	if !logLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Sprintf("unknown log level %q", cfg.LogLevel))
	}
	if cfg.RedisURL != "" && !strings.HasPrefix(cfg.RedisURL, "redis://") && !strings.HasPrefix(cfg.RedisURL, "rediss://") {
		errs = append(errs, fmt.Sprintf("REDIS_URL %q is not a redis:// URL", cfg.RedisURL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}
