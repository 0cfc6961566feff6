package config_test

import (
	"testing"

	"github.com/bazaarlabs/bazaar-agent/internal/config"
	"github.com/bazaarlabs/bazaar-agent/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(constants.EnvStage, "")
	t.Setenv(constants.EnvMarketplaceURL, "")
	t.Setenv(constants.EnvAPIKey, "")
	t.Setenv(constants.EnvWalletPath, "")
	t.Setenv(constants.EnvLogLevel, "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Stage)
	assert.Equal(t, constants.DefaultMarketplaceURL, cfg.MarketplaceURL)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.WalletPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(constants.EnvStage, "prod")
	t.Setenv(constants.EnvMarketplaceURL, "https://marketplace.example.com")
	t.Setenv(constants.EnvAPIKey, "sk_live")
	t.Setenv(constants.EnvWalletPath, "/tmp/wallet.json")
	t.Setenv(constants.EnvLogLevel, "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Stage)
	assert.Equal(t, "https://marketplace.example.com", cfg.MarketplaceURL)
	assert.Equal(t, "sk_live", cfg.APIKey)
	assert.Equal(t, "/tmp/wallet.json", cfg.WalletPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}
