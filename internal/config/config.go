package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultDatabaseURL  = "tattoo.db"
	defaultRelayURL     = "https://ntfy.sh"
	defaultRelayTopic   = "tattoo_alb_requests_v1"
	defaultRelayTimeout = "15s"
	defaultAdminPIN     = "9702"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTTTL       = "12h"
	defaultHomeImageURL = "https://i.ibb.co/PZMPwgnC/DSC08612-new-ps-2.jpg"
)

type Config struct {
	Port         string
	DatabaseURL  string
	RelayURL     string
	RelayTopic   string
	RelayTimeout time.Duration
	AdminPIN     string
	JWTSecret    string
	JWTTTL       time.Duration
	HomeImageURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", defaultPort),
		DatabaseURL:  getEnv("DATABASE_URL", defaultDatabaseURL),
		RelayURL:     strings.TrimRight(getEnv("RELAY_URL", defaultRelayURL), "/"),
		RelayTopic:   getEnv("RELAY_TOPIC", defaultRelayTopic),
		AdminPIN:     getEnv("ADMIN_PIN", defaultAdminPIN),
		JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
		HomeImageURL: getEnv("HOME_IMAGE_URL", defaultHomeImageURL),
	}

	var err error
	cfg.RelayTimeout, err = parseDurationEnv("RELAY_TIMEOUT", defaultRelayTimeout)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	if cfg.RelayTopic == "" {
		return nil, fmt.Errorf("RELAY_TOPIC must not be empty")
	}
	if cfg.AdminPIN == "" {
		return nil, fmt.Errorf("ADMIN_PIN must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return d, nil
}
