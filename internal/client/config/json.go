package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/antonkuprin/medilink/internal/flagx"
	"github.com/antonkuprin/medilink/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	BaseURL             string         `json:"base_url"`
	APIPrefix           string         `json:"api_prefix"`
	DatabaseDSN         string         `json:"database_dsn"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	HealthCheckInterval timex.Duration `json:"health_check_interval"`
	TokenExpiryMargin   timex.Duration `json:"token_expiry_margin"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags (flagx.JsonConfigFlags);
// if neither is given, no JSON is loaded. Only fields present in the file
// override the current values. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.APIPrefix != "" {
		cfg.APIPrefix = jc.APIPrefix
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.HealthCheckInterval.Duration > 0 {
		cfg.HealthCheckInterval = time.Duration(jc.HealthCheckInterval.Duration)
	}
	if jc.TokenExpiryMargin.Duration > 0 {
		cfg.TokenExpiryMargin = time.Duration(jc.TokenExpiryMargin.Duration)
	}
}
