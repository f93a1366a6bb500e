package config

import (
	"flag"
	"os"
	"time"

	"github.com/antonkuprin/medilink/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   base URL of the backend API (default from Config)
//	-d string   path/DSN of the local client database
//	-i int      health check interval in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local client database")
	healthCheckInterval := fs.Int("i", int(cfg.HealthCheckInterval.Seconds()), "health check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HealthCheckInterval = time.Duration(*healthCheckInterval) * time.Second
}
