package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"
	TestEnvironment = "test"

	// Environment variable names
	EnvStage          = "BAZAAR_STAGE"
	EnvMarketplaceURL = "BAZAAR_API_URL"
	EnvAPIKey         = "BAZAAR_API_KEY"
	EnvWalletPath     = "BAZAAR_WALLET_PATH"
	EnvLogLevel       = "LOG_LEVEL"

	// Defaults
	DefaultMarketplaceURL = "https://api.bazaar.dev"
)
