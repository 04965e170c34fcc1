package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// GetEnv reads an environment variable. Missing keys return "" so callers
// can apply their own defaults.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault reads an environment variable and falls back to the given
// default, logging a warning so misconfigured deployments are visible.
func GetEnvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		Logger.Warn("Environment variable not set, using default",
			zap.String("key", key),
			zap.String("default", fallback),
		)
		return fallback
	}
	return value
}

// GetEnvInt reads an integer environment variable with warn-and-default behavior.
func GetEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		Logger.Warn("Invalid integer environment variable, using default",
			zap.String("key", key),
			zap.String("value", value),
			zap.Int("default", fallback),
			zap.Error(err),
		)
		return fallback
	}
	return n
}

// GetEnvDuration reads a duration environment variable (e.g. "30s", "5m")
// with warn-and-default behavior.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		Logger.Warn("Invalid duration environment variable, using default",
			zap.String("key", key),
			zap.String("value", value),
			zap.Duration("default", fallback),
			zap.Error(err),
		)
		return fallback
	}
	return d
}
