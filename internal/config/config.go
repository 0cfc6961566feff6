package config

import (
	"fmt"
	"os"

	"github.com/bazaarlabs/bazaar-agent/internal/constants"
	"github.com/joho/godotenv"
)

// Config holds everything the agent needs at startup. Values come from the
// environment, optionally seeded from a .env file in the working directory.
type Config struct {
	Stage          string
	MarketplaceURL string
	APIKey         string
	WalletPath     string
	LogLevel       string
}

// Load reads configuration from the environment. A missing .env file is not an
// error; explicit environment variables always win over .env contents.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Stage:          getEnvWithDefault(constants.EnvStage, "dev"),
		MarketplaceURL: getEnvWithDefault(constants.EnvMarketplaceURL, constants.DefaultMarketplaceURL),
		APIKey:         os.Getenv(constants.EnvAPIKey),
		WalletPath:     os.Getenv(constants.EnvWalletPath),
		LogLevel:       getEnvWithDefault(constants.EnvLogLevel, "info"),
	}

	if cfg.MarketplaceURL == "" {
		return nil, fmt.Errorf("%s environment variable is required", constants.EnvMarketplaceURL)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
