// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first through 'joho/godotenv' when present.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, sessions, hasher) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Session storage backends.
const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the portal API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// DatabaseName is the database reported by the status endpoint.
	// Derived from DatabaseURL when empty.
	DatabaseName string `env:"POSTGRES_DB"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Session storage
	SessionStore string        `env:"SESSION_STORE" envDefault:"postgres"`
	SessionTTL   time.Duration `env:"SESSION_TTL"   envDefault:"720h"`

	// Key-Value Cache (Redis). Only required by the redis session store.
	RedisURL string `env:"REDIS_URL"`

	// BcryptCost is the adaptive cost factor of the password hasher.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env file is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps environment variables to a [Config] and validates it.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.DatabaseName == "" {
		cfg.DatabaseName = databaseNameFromURL(cfg.DatabaseURL)
	}

	return cfg, nil
}

// validate cross-checks fields that depend on each other.
func (c *Config) validate() error {
	switch c.SessionStore {
	case SessionStorePostgres:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when SESSION_STORE=%s", SessionStoreRedis)
		}
	default:
		return fmt.Errorf("config: unsupported SESSION_STORE %q", c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}

// databaseNameFromURL extracts the database name from a postgres:// URL.
func databaseNameFromURL(dsn string) string {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Path, "/")
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
