// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
)

// Storage backend names accepted in CART_STORAGE.
const (
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// Config holds the environment-specific settings for the API binary.
type Config struct {
	Addr         string
	DatabaseURL  string
	RedisAddr    string
	InventoryURL string
	CartStorage  string
	OtelHost     string
	CertFile     string
	KeyFile      string
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development.
func Load() (Config, error) {
	cfg := Config{
		Addr:         getEnvOrDefault("ADDR", ":8443"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		InventoryURL: getEnvOrDefault("INVENTORY_URL", "http://localhost:3333"),
		CartStorage:  getEnvOrDefault("CART_STORAGE", StoragePostgres),
		OtelHost:     getEnvOrDefault("OTEL_HOST", "localhost:4317"),
		CertFile:     getEnvOrDefault("CERT_FILE", "certs/server.crt"),
		KeyFile:      getEnvOrDefault("KEY_FILE", "certs/server.key"),
	}

	switch cfg.CartStorage {
	case StoragePostgres, StorageRedis, StorageMemory:
	default:
		return Config{}, fmt.Errorf("unknown CART_STORAGE %q", cfg.CartStorage)
	}
	if cfg.CartStorage == StoragePostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for postgres storage")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
