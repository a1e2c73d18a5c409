// Package config resolves runtime configuration from the environment, with
// optional .env loading. Which rules are enabled and how severities are
// overridden stays a host concern; the analysis core never reads config.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the CLI runtime configuration.
type Config struct {
	// DatabaseURL is the findings database DSN; empty disables persistence.
	DatabaseURL string

	// Workers bounds concurrent file sessions; 0 means one per CPU.
	Workers int

	// Disabled lists rule ids excluded from runs.
	Disabled []string

	// MinImpact filters rules below the given impact level.
	MinImpact string

	// Debug enables verbose logging.
	Debug bool
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DatabaseURL: "",
		Workers:     0,
		MinImpact:   "",
		Debug:       false,
	}
}

// Load builds the config from defaults, a .env file when present, and
// LINTFX_* environment variables, in increasing precedence.
func Load() Config {
	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("LINTFX_DB"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("LINTFX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("LINTFX_DISABLE"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.Disabled = append(cfg.Disabled, id)
			}
		}
	}
	if v := os.Getenv("LINTFX_MIN_IMPACT"); v != "" {
		cfg.MinImpact = v
	}
	if v := os.Getenv("LINTFX_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	return cfg
}
