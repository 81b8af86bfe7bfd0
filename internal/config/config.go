// Package config loads runtime settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       string
	LogFormat      string
	OTELEndpoint   string
	TraceStdout    bool
	AllowedOrigins []string
}

var ErrMissingSecret = errors.New("SHOPLIST_JWT_SECRET is required")

// Load reads the environment. It never fails on a missing .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg := Config{
		Port:         envOr("SHOPLIST_PORT", "8080"),
		DBPath:       envOr("SHOPLIST_DB_PATH", "shoplist.db"),
		JWTSecret:    os.Getenv("SHOPLIST_JWT_SECRET"),
		LogLevel:     envOr("SHOPLIST_LOG_LEVEL", "info"),
		LogFormat:    envOr("SHOPLIST_LOG_FORMAT", "text"),
		OTELEndpoint: os.Getenv("SHOPLIST_OTEL_ENDPOINT"),
	}

	ttl, err := time.ParseDuration(envOr("SHOPLIST_TOKEN_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid SHOPLIST_TOKEN_TTL %q", os.Getenv("SHOPLIST_TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	if v := os.Getenv("SHOPLIST_TRACE_STDOUT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHOPLIST_TRACE_STDOUT %q: %w", v, err)
		}
		cfg.TraceStdout = b
	}

	for _, o := range strings.Split(os.Getenv("SHOPLIST_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

// RequireSecret reports ErrMissingSecret when no signing secret is set.
func (c Config) RequireSecret() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
