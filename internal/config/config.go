package config

import (
	"fmt"
	"os"
	"strings"
)

// Config keeps runtime settings for the server.
type Config struct {
	HTTPAddr    string
	DatabaseURL string
	// SweepTime is the HH:MM local time of the daily retention sweep;
	// empty disables the scheduled sweep.
	SweepTime string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:    strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SweepTime:   strings.TrimSpace(os.Getenv("SWEEP_TIME")),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "kids_todo.db"
	}

	if cfg.SweepTime != "" {
		if parts := strings.Split(cfg.SweepTime, ":"); len(parts) != 2 {
			return cfg, fmt.Errorf("SWEEP_TIME %q must be HH:MM", cfg.SweepTime)
		}
	}

	return cfg, nil
}
