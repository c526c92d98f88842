// Package vidqa turns YouTube video transcripts into a searchable,
// question-answerable library.
//
// Videos are fetched, chunked, embedded, and stored in SQLite or PostgreSQL.
// Questions are answered by retrieving the most similar transcript chunks
// and passing them as context to a chat completion model, with an extractive
// fallback when no model is configured.
//
// Basic usage:
//
//	client, err := vidqa.New(
//	    vidqa.WithSQLite("vidqa.db"),
//	    vidqa.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	v, err := client.Library.AddVideo(ctx, "https://www.youtube.com/watch?v=...")
//	answer, err := client.QA.Ask(ctx, "what does the speaker say about channels?")
package vidqa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/vidqa/vidqa/application/service"
	domainsearch "github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/infrastructure/persistence"
	"github.com/vidqa/vidqa/infrastructure/provider"
	infrasearch "github.com/vidqa/vidqa/infrastructure/search"
	"github.com/vidqa/vidqa/infrastructure/youtube"
	"github.com/vidqa/vidqa/internal/config"
	"github.com/vidqa/vidqa/internal/database"
	"github.com/vidqa/vidqa/internal/log"
)

// ErrNoEmbedder indicates no embedding provider could be configured.
var ErrNoEmbedder = errors.New("vidqa: no embedding provider available, set an OpenAI API key or provide a local model")

// Client is the main entry point for the vidqa library.
type Client struct {
	// Library manages the indexed videos.
	Library service.LibraryService

	// QA answers questions over the indexed transcripts.
	QA service.QAService

	cfg     *config.AppConfig
	db      database.Database
	logger  *log.Logger
	closers []io.Closer
	closed  atomic.Bool
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cc := newClientConfig()
	for _, opt := range opts {
		opt(cc)
	}

	cfg := cc.appConfig()
	logger := cc.logger
	if logger == nil {
		logger = log.NewLogger(cfg)
	}

	if err := cfg.PrepareDataDir(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return nil, err
	}

	client := &Client{cfg: cfg, db: db, logger: logger}

	if err := persistence.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	embedder, err := client.buildEmbedder(cc)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	vectors := infrasearch.NewVectorStore(db, embedder, logger)
	if migrator, ok := vectors.(interface{ Migrate(context.Context) error }); ok {
		if err := migrator.Migrate(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("migrate vector store: %w", err)
		}
	}

	generator := client.buildGenerator(cc)
	fetcher := client.buildFetcher(cc)

	videos := persistence.NewVideoStore(db)
	chunks := persistence.NewChunkStore(db)
	transcripts := persistence.NewTranscriptCache(db)

	client.Library = service.NewLibraryService(fetcher, videos, chunks, transcripts, vectors, cfg, logger)
	client.QA = service.NewQAService(vectors, chunks, videos, generator, cfg, logger)

	return client, nil
}

// buildEmbedder picks the embedding provider: an explicit override, then the
// configured embedding endpoint, then local ONNX embeddings.
func (c *Client) buildEmbedder(cc *clientConfig) (domainsearch.Embedder, error) {
	if cc.embedder != nil {
		return cc.embedder, nil
	}

	endpoint := c.cfg.EmbeddingEndpoint()
	if endpoint.APIKey() != "" || endpoint.BaseURL() != "" {
		upstream := provider.NewOpenAIProvider(endpoint)
		c.closers = append(c.closers, upstream)
		return provider.NewBatchEmbedder(upstream, endpoint.MaxBatchSize(), endpoint.NumParallel()), nil
	}

	hugot := provider.NewHugotEmbedding(c.cfg.DataDir())
	if hugot.Available() {
		c.logger.Info("using local embedding model")
		c.closers = append(c.closers, hugot)
		return provider.NewBatchEmbedder(hugot, hugot.Capacity(), 1), nil
	}

	return nil, ErrNoEmbedder
}

// buildGenerator returns the chat completion provider, or nil when answers
// should fall back to extractive summaries.
func (c *Client) buildGenerator(cc *clientConfig) provider.TextGenerator {
	if cc.generator != nil {
		return cc.generator
	}

	endpoint := c.cfg.AnswerEndpoint()
	if endpoint.APIKey() == "" && endpoint.BaseURL() == "" {
		c.logger.Warn("no answer model configured, answers will be extractive")
		return nil
	}

	p := provider.NewOpenAIProvider(endpoint)
	c.closers = append(c.closers, p)
	return p
}

func (c *Client) buildFetcher(cc *clientConfig) service.TranscriptFetcher {
	if cc.fetcher != nil {
		return cc.fetcher
	}
	return youtube.NewClient(
		youtube.WithRateLimit(c.cfg.YouTubeRPS()),
		youtube.WithLogger(c.logger),
	)
}

// Config returns the resolved configuration.
func (c *Client) Config() *config.AppConfig {
	return c.cfg
}

// Logger returns the client logger.
func (c *Client) Logger() *log.Logger {
	return c.logger
}

// Database returns the underlying database handle.
func (c *Client) Database() database.Database {
	return c.db
}

// Close releases the database and any provider resources. Safe to call more
// than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
