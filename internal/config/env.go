package config

import (
	"os"
	"strconv"
)

// loadFromEnv overrides config from CHAOS_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("CHAOS_DIR"); v != "" {
		cfg.ChaosDir = v
	}
	if v := os.Getenv("CHAOS_SCHEMA_DIR"); v != "" {
		cfg.SchemaDir = v
	}
	if v := os.Getenv("CHAOS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CHAOS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("CHAOS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Workers = n
		}
	}
}
