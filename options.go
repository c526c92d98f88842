package vidqa

import (
	"github.com/vidqa/vidqa/application/service"
	domainsearch "github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/infrastructure/provider"
	"github.com/vidqa/vidqa/internal/config"
	"github.com/vidqa/vidqa/internal/log"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	cfg        *config.AppConfig
	configOpts []config.Option
	logger     *log.Logger
	embedder   domainsearch.Embedder
	generator  provider.TextGenerator
	fetcher    service.TranscriptFetcher
}

func newClientConfig() *clientConfig {
	return &clientConfig{}
}

// appConfig resolves the effective configuration: an explicit config wins,
// otherwise defaults plus any collected config options.
func (c *clientConfig) appConfig() *config.AppConfig {
	if c.cfg != nil {
		return c.cfg
	}
	return config.NewAppConfig(c.configOpts...)
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig uses a fully resolved configuration, as loaded from the
// environment. It overrides the per-field options.
func WithConfig(cfg *config.AppConfig) Option {
	return func(c *clientConfig) {
		c.cfg = cfg
	}
}

// WithSQLite stores everything in a SQLite database at the given path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.configOpts = append(c.configOpts, config.WithDBURL("sqlite://"+path))
	}
}

// WithPostgres stores everything in PostgreSQL with the pgvector extension.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.configOpts = append(c.configOpts, config.WithDBURL(dsn))
	}
}

// WithDataDir overrides the data directory (default ~/.vidqa).
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.configOpts = append(c.configOpts, config.WithDataDir(dir))
	}
}

// WithOpenAI uses the OpenAI API for both embeddings and answers.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		c.configOpts = append(c.configOpts,
			config.WithEmbeddingEndpoint(config.NewEndpoint(
				config.WithAPIKey(apiKey),
				config.WithModel(config.DefaultEmbeddingModel),
			)),
			config.WithAnswerEndpoint(config.NewEndpoint(
				config.WithAPIKey(apiKey),
				config.WithModel(config.DefaultAnswerModel),
			)),
		)
	}
}

// WithEmbeddingEndpoint points embeddings at an OpenAI-compatible endpoint.
func WithEmbeddingEndpoint(e *config.Endpoint) Option {
	return func(c *clientConfig) {
		c.configOpts = append(c.configOpts, config.WithEmbeddingEndpoint(e))
	}
}

// WithAnswerEndpoint points chat completions at an OpenAI-compatible
// endpoint.
func WithAnswerEndpoint(e *config.Endpoint) Option {
	return func(c *clientConfig) {
		c.configOpts = append(c.configOpts, config.WithAnswerEndpoint(e))
	}
}

// WithLogger overrides the logger built from the configuration.
func WithLogger(logger *log.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithEmbedder injects a custom embedding provider.
func WithEmbedder(e domainsearch.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithTextGenerator injects a custom chat completion provider.
func WithTextGenerator(g provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.generator = g
	}
}

// WithTranscriptFetcher injects a custom transcript source, mainly for
// tests.
func WithTranscriptFetcher(f service.TranscriptFetcher) Option {
	return func(c *clientConfig) {
		c.fetcher = f
	}
}

// WithChunking overrides the chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(c *clientConfig) {
		c.configOpts = append(c.configOpts,
			config.WithChunkSize(size),
			config.WithChunkOverlap(overlap),
		)
	}
}

// WithTranscriptLanguages sets the caption language preference order.
func WithTranscriptLanguages(langs ...string) Option {
	return func(c *clientConfig) {
		c.configOpts = append(c.configOpts, config.WithTranscriptLanguages(langs))
	}
}
