package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the planner binaries.
type Config struct {
	DatabaseURL    string
	StoreDriver    string
	UnitsFile      string
	MigrationsPath string
	Port           string
	AllowedOrigins string
	LogLevel       string
	Location       *time.Location // "today" is evaluated in this zone
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StoreDriver:    getEnvOrDefault("STORE_DRIVER", DriverPostgres),
		UnitsFile:      os.Getenv("UNITS_FILE"),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		Port:           getEnvOrDefault("SERVER_PORT", "8080"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
	}

	loc, err := time.LoadLocation(getEnvOrDefault("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres store")
		}
	case DriverMemory:
		if cfg.UnitsFile == "" {
			return nil, fmt.Errorf("UNITS_FILE environment variable is required for the memory store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, DriverPostgres, DriverMemory)
	}

	return cfg, nil
}

// Now returns the current time in the configured zone.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
