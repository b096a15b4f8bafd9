package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultAddr           = ":8080"
	defaultDatabaseURL    = "tavolina.db"
	defaultAllowPastDates = "false"
)

// Config holds runtime settings for the reservations API.
type Config struct {
	AppEnv      string
	Addr        string
	DatabaseURL string

	// AllowPastDates permits validating and booking slots on past calendar
	// dates. Off for the public API; the admin deployment sets it to let
	// staff back-date walk-in reservations.
	AllowPastDates bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Addr = strings.TrimSpace(getEnv("ADDR", defaultAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))

	var err error
	cfg.AllowPastDates, err = parseBoolEnv("RESERVATIONS_ALLOW_PAST_DATES", defaultAllowPastDates)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolEnv(key, fallback string) (bool, error) {
	raw := getEnv(key, fallback)
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}
