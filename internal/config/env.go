package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TODO_* environment variables and
// records each override in sources when sources is non-nil.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TODO_DATA_DIR"); v != "" {
		cfg.DataDir = v
		setEnv("data_dir")
	}
	if v := os.Getenv("TODO_BACKEND"); v != "" {
		cfg.Backend = v
		setEnv("backend")
	}
	if v := os.Getenv("TODO_KEY"); v != "" {
		cfg.StorageKey = v
		setEnv("storage_key")
	}
	if v := os.Getenv("TODO_STRICT_LOAD"); v != "" {
		cfg.StrictLoad = boolFromString(v)
		setEnv("strict_load")
	}
	if v := os.Getenv("TODO_ID_SCHEME"); v != "" {
		cfg.IDScheme = v
		setEnv("id_scheme")
	}
	if v := os.Getenv("TODO_SUCCESS_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TODO_SUCCESS_DELAY_MS: %w", err)
		}
		cfg.SuccessDelayMS = ms
		setEnv("success_delay_ms")
	}

	// Logging configuration
	if v := os.Getenv("TODO_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir")
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODO_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODO_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
	return nil
}

// boolFromString parses a boolean from common string representations.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
