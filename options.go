package ragline

import (
	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/embedding"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	dbPath       string
	embCfg       embedding.Config
	assetCatalog bool
	chatProvider string
	chatAPIKey   string
	chatBaseURL  string
	chatModel    string
	logger       *zap.Logger
}

// WithDatabasePath sets the SQLite database file path.
func WithDatabasePath(path string) Option {
	return func(c *clientConfig) {
		c.dbPath = path
	}
}

// WithDimensions sets the embedding vector length.
func WithDimensions(dims int) Option {
	return func(c *clientConfig) {
		c.embCfg.Dimensions = dims
	}
}

// WithNormalization toggles unit-length normalization of vectors.
func WithNormalization(enabled bool) Option {
	return func(c *clientConfig) {
		c.embCfg.Normalize = enabled
	}
}

// WithStemming toggles suffix stripping during tokenization.
func WithStemming(enabled bool) Option {
	return func(c *clientConfig) {
		c.embCfg.Stemming = enabled
	}
}

// WithAssetCatalog registers the built-in asset management data sources
// and query hints.
func WithAssetCatalog() Option {
	return func(c *clientConfig) {
		c.assetCatalog = true
	}
}

// WithChatProvider enables the model-backed classifier and planner
// against an OpenAI-compatible API. Without it, classification runs on
// keyword rules only.
func WithChatProvider(provider, apiKey, baseURL, model string) Option {
	return func(c *clientConfig) {
		c.chatProvider = provider
		c.chatAPIKey = apiKey
		c.chatBaseURL = baseURL
		c.chatModel = model
	}
}

// WithLogger sets the logger (default: no-op).
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
