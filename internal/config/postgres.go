package config

import (
	"fmt"
	"strconv"
)

// Postgres defaults for the fixture cart store
const (
	DefaultPostgresPort    = 5432
	DefaultPostgresSSLMode = "disable"
)

var postgresSSLModes = map[string]bool{
	"disable": true, "allow": true, "prefer": true,
	"require": true, "verify-ca": true, "verify-full": true,
}

// PostgresConfig locates the database the fixture storefront keeps carts in
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// PostgresEnabled reports whether getenv names a cart database. Without one the
// storefront keeps carts in memory.
func PostgresEnabled(getenv func(string) string) bool {
	return getenv("POSTGRES_HOSTNAME") != ""
}

// LoadPostgresConfig loads the cart database configuration from environment variables
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		Host:     getenv("POSTGRES_HOSTNAME"),
		Port:     DefaultPostgresPort,
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		SSLMode:  getenv("POSTGRES_SSLMODE"),
	}

	for _, required := range []struct{ key, value string }{
		{"POSTGRES_HOSTNAME", config.Host},
		{"POSTGRES_USER", config.User},
		{"POSTGRES_PASSWORD", config.Password},
		{"POSTGRES_DB", config.Database},
	} {
		if required.value == "" {
			return nil, fmt.Errorf("%s is required", required.key)
		}
	}

	if v := getenv("POSTGRES_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("POSTGRES_PORT must be a TCP port, got %q", v)
		}
		config.Port = port
	}
	if config.SSLMode == "" {
		config.SSLMode = DefaultPostgresSSLMode
	}
	if !postgresSSLModes[config.SSLMode] {
		return nil, fmt.Errorf("POSTGRES_SSLMODE %q is not a libpq sslmode", config.SSLMode)
	}

	return config, nil
}

// ConnectionString returns the lib/pq connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}
