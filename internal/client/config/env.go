package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment.
// A .env file in the working directory is loaded first if present
// (existing environment variables are not overwritten by godotenv).
//
// Recognized variables:
//
//	MEDILINK_BASE_URL
//	MEDILINK_API_PREFIX
//	MEDILINK_DATABASE_DSN
//	MEDILINK_HEALTH_CHECK_INTERVAL (Go duration, e.g. "5s")
//	MEDILINK_TOKEN_EXPIRY_MARGIN   (Go duration, e.g. "5m")
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("MEDILINK_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("MEDILINK_API_PREFIX"); v != "" {
		cfg.APIPrefix = v
	}
	if v := os.Getenv("MEDILINK_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("MEDILINK_HEALTH_CHECK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HealthCheckInterval = d
		}
	}
	if v := os.Getenv("MEDILINK_TOKEN_EXPIRY_MARGIN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenExpiryMargin = d
		}
	}
}
