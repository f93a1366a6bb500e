package config

import (
	"time"

	"github.com/antonkuprin/medilink/internal/common"
)

// Config holds runtime settings for the medilink client.
//
// The base URL is kept separate from the versioned prefix; the pipeline
// joins them per call, so the endpoint can be switched at runtime without
// stale absolute URLs.
type Config struct {
	BaseURL     string
	APIPrefix   string
	DatabaseDSN string

	// Pipeline session: long timeouts, the client waits for connectivity
	// rather than failing fast.
	RequestTimeout time.Duration

	// Dedicated upload session.
	UploadConnectTimeout time.Duration
	UploadTimeout        time.Duration

	// Connectivity monitor.
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration

	// Auth.
	TokenExpiryMargin time.Duration

	// Retry policy.
	MaxAttempts    int
	AuthRetryDelay time.Duration
	BackoffStep    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000"
	c.APIPrefix = common.APIPrefix
	c.DatabaseDSN = "medilink.db"
	c.RequestTimeout = 5 * time.Minute
	c.UploadConnectTimeout = 30 * time.Second
	c.UploadTimeout = 300 * time.Second
	c.HealthCheckInterval = 5 * time.Second
	c.HealthCheckTimeout = 5 * time.Second
	c.TokenExpiryMargin = 5 * time.Minute
	c.MaxAttempts = 3
	c.AuthRetryDelay = 1 * time.Second
	c.BackoffStep = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (.env included), a JSON file and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
