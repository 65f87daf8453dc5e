// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"lgstudio/internal/models"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache and event bus)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Locales used when a project has no settings of its own.
	Locales models.LocaleSettings

	FileCacheTTL  time.Duration
	NotifyChannel string

	// Mutating API requests allowed per client and minute; 0 disables.
	WriteRateLimit int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "lgstudio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "lgstudio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		Locales: models.LocaleSettings{
			Languages:       splitList(envOrDefault("LG_LANGUAGES", "en-us")),
			DefaultLanguage: envOrDefault("LG_DEFAULT_LOCALE", "en-us"),
		},

		NotifyChannel: envOrDefault("LG_NOTIFY_CHANNEL", "lgstudio:events"),
	}

	db, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("VALKEY_DB must be a non-negative integer, got %q", os.Getenv("VALKEY_DB"))
	}
	cfg.ValkeyDB = db

	limit, err := strconv.Atoi(envOrDefault("LG_WRITE_RATE_LIMIT", "120"))
	if err != nil || limit < 0 {
		return nil, fmt.Errorf("LG_WRITE_RATE_LIMIT must be a non-negative integer, got %q", os.Getenv("LG_WRITE_RATE_LIMIT"))
	}
	cfg.WriteRateLimit = limit

	ttl, err := time.ParseDuration(envOrDefault("LG_FILE_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("parse LG_FILE_CACHE_TTL: %w", err)
	}
	cfg.FileCacheTTL = ttl

	if err := cfg.Locales.Validate(); err != nil {
		return nil, fmt.Errorf("LG_LANGUAGES / LG_DEFAULT_LOCALE: %w", err)
	}

	if cfg.Env == "production" && cfg.DBPassword == "changeme" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
