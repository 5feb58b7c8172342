/*
Package configs loads and validates the application's configuration.

Settings come from environment variables (with an optional .env file in
development) and cover the running environment, listen port, CORS allowed
origins, and the optional room catalog override file.
*/
package configs

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig contains all configuration parameters required to run the server.
type AppConfig struct {
	// Environment selects logging format and origin checks ("development" or "production").
	Environment string `envconfig:"ENVIRONMENT" default:"development" validate:"oneof=development production"`

	// Port is the HTTP listen port. Privileged ports are rejected.
	Port int `envconfig:"PORT" default:"8080" validate:"gte=1024,lte=65535"`

	// AllowedOrigins lists the origins permitted for CORS and WebSocket upgrades.
	// Empty in development means all origins are accepted.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" validate:"dive,url"`

	// RoomCatalogPath optionally points at a JSON file overriding the built-in
	// room catalog. Empty means the built-in catalog is used.
	RoomCatalogPath string `envconfig:"ROOM_CATALOG_PATH"`
}

// LoadConfig reads the configuration from the environment, applying .env
// overrides when present, and validates the result.
func LoadConfig() (*AppConfig, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Environment != "development" && len(cfg.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("ALLOWED_ORIGINS is required in %s environment", cfg.Environment)
	}

	return cfg, nil
}
