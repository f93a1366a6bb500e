// Package config loads runtime configuration for the medilink client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with an optional .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the backend API
//	-d string   path/DSN of the local client database
//	-i int      health check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://api.medilink.example",
//	  "health_check_interval": "5s",
//	  "token_expiry_margin": "5m"
//	}
//
// Primary API
//
//   - type Config: runtime settings of the client core
//   - func LoadConfig() *Config: defaults, then env, JSON and flags
//   - func (*Config) LoadDefaults(): sets sensible defaults
package config
