// Package config holds the runtime configuration for vidqa.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultHost             = "127.0.0.1"
	DefaultPort             = 8080
	DefaultLogLevel         = "info"
	DefaultDBURL            = "" // derived from the data dir when empty
	DefaultChunkSize        = 1000
	DefaultChunkOverlap     = 200
	DefaultTopK             = 5
	DefaultMaxTokens        = 500
	DefaultTemperature      = 0.7
	DefaultYouTubeRPS       = 2.0
	DefaultEndpointTimeout  = 60 * time.Second
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultAnswerModel      = "gpt-4o-mini"
	defaultDataDirName      = ".vidqa"
	defaultDatabaseFileName = "vidqa.db"
)

// LogFormat is the output format for logs.
type LogFormat string

const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatText   LogFormat = "text"
	LogFormatJSON   LogFormat = "json"
)

// Endpoint describes a remote model provider.
type Endpoint struct {
	baseURL       string
	model         string
	apiKey        string
	timeout       time.Duration
	numParallel   int
	maxBatchSize  int
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

func (e *Endpoint) BaseURL() string             { return e.baseURL }
func (e *Endpoint) Model() string               { return e.model }
func (e *Endpoint) APIKey() string              { return e.apiKey }
func (e *Endpoint) Timeout() time.Duration      { return e.timeout }
func (e *Endpoint) NumParallel() int            { return e.numParallel }
func (e *Endpoint) MaxBatchSize() int           { return e.maxBatchSize }
func (e *Endpoint) MaxRetries() int             { return e.maxRetries }
func (e *Endpoint) InitialDelay() time.Duration { return e.initialDelay }
func (e *Endpoint) BackoffFactor() float64      { return e.backoffFactor }

// EndpointOption configures an Endpoint.
type EndpointOption func(*Endpoint)

func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

func WithNumParallel(n int) EndpointOption {
	return func(e *Endpoint) { e.numParallel = n }
}

func WithMaxBatchSize(n int) EndpointOption {
	return func(e *Endpoint) { e.maxBatchSize = n }
}

func WithMaxRetries(n int) EndpointOption {
	return func(e *Endpoint) { e.maxRetries = n }
}

func WithInitialDelay(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.initialDelay = d }
}

func WithBackoffFactor(f float64) EndpointOption {
	return func(e *Endpoint) { e.backoffFactor = f }
}

// NewEndpoint creates an endpoint with defaults applied.
func NewEndpoint(opts ...EndpointOption) *Endpoint {
	e := &Endpoint{
		timeout:       DefaultEndpointTimeout,
		numParallel:   4,
		maxBatchSize:  64,
		maxRetries:    5,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Retrieval carries the tunables of the question answering pipeline.
type Retrieval struct {
	chunkSize    int
	chunkOverlap int
	topK         int
	maxTokens    int
	temperature  float64
}

func (r Retrieval) ChunkSize() int       { return r.chunkSize }
func (r Retrieval) ChunkOverlap() int    { return r.chunkOverlap }
func (r Retrieval) TopK() int            { return r.topK }
func (r Retrieval) MaxTokens() int       { return r.maxTokens }
func (r Retrieval) Temperature() float64 { return r.temperature }

// AppConfig is the resolved application configuration.
type AppConfig struct {
	host                string
	port                int
	dataDir             string
	dbURL               string
	logLevel            string
	logFormat           LogFormat
	apiKeys             []string
	embeddingEndpoint   *Endpoint
	answerEndpoint      *Endpoint
	retrieval           Retrieval
	transcriptLanguages []string
	youtubeRPS          float64
}

func (c *AppConfig) Host() string                  { return c.host }
func (c *AppConfig) Port() int                     { return c.port }
func (c *AppConfig) DataDir() string               { return c.dataDir }
func (c *AppConfig) DBURL() string                 { return c.dbURL }
func (c *AppConfig) LogLevel() string              { return c.logLevel }
func (c *AppConfig) LogFormat() LogFormat          { return c.logFormat }
func (c *AppConfig) APIKeys() []string             { return c.apiKeys }
func (c *AppConfig) EmbeddingEndpoint() *Endpoint  { return c.embeddingEndpoint }
func (c *AppConfig) AnswerEndpoint() *Endpoint     { return c.answerEndpoint }
func (c *AppConfig) Retrieval() Retrieval          { return c.retrieval }
func (c *AppConfig) TranscriptLanguages() []string { return c.transcriptLanguages }
func (c *AppConfig) YouTubeRPS() float64           { return c.youtubeRPS }

// Addr returns the host:port pair the HTTP server binds to.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// Option configures an AppConfig.
type Option func(*AppConfig)

func WithHost(host string) Option {
	return func(c *AppConfig) { c.host = host }
}

func WithPort(port int) Option {
	return func(c *AppConfig) { c.port = port }
}

func WithDataDir(dir string) Option {
	return func(c *AppConfig) { c.dataDir = dir }
}

func WithDBURL(url string) Option {
	return func(c *AppConfig) { c.dbURL = url }
}

func WithLogLevel(level string) Option {
	return func(c *AppConfig) { c.logLevel = level }
}

func WithLogFormat(format LogFormat) Option {
	return func(c *AppConfig) { c.logFormat = format }
}

func WithAPIKeys(keys []string) Option {
	return func(c *AppConfig) { c.apiKeys = keys }
}

func WithEmbeddingEndpoint(e *Endpoint) Option {
	return func(c *AppConfig) { c.embeddingEndpoint = e }
}

func WithAnswerEndpoint(e *Endpoint) Option {
	return func(c *AppConfig) { c.answerEndpoint = e }
}

func WithChunkSize(n int) Option {
	return func(c *AppConfig) { c.retrieval.chunkSize = n }
}

func WithChunkOverlap(n int) Option {
	return func(c *AppConfig) { c.retrieval.chunkOverlap = n }
}

func WithTopK(n int) Option {
	return func(c *AppConfig) { c.retrieval.topK = n }
}

func WithMaxTokens(n int) Option {
	return func(c *AppConfig) { c.retrieval.maxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(c *AppConfig) { c.retrieval.temperature = t }
}

func WithTranscriptLanguages(langs []string) Option {
	return func(c *AppConfig) { c.transcriptLanguages = langs }
}

func WithYouTubeRPS(rps float64) Option {
	return func(c *AppConfig) { c.youtubeRPS = rps }
}

// Apply applies additional options to an existing configuration and
// returns it for chaining.
func (c *AppConfig) Apply(opts ...Option) *AppConfig {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAppConfig creates a configuration with defaults applied.
func NewAppConfig(opts ...Option) *AppConfig {
	c := &AppConfig{
		host:      DefaultHost,
		port:      DefaultPort,
		dataDir:   DefaultDataDir(),
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		retrieval: Retrieval{
			chunkSize:    DefaultChunkSize,
			chunkOverlap: DefaultChunkOverlap,
			topK:         DefaultTopK,
			maxTokens:    DefaultMaxTokens,
			temperature:  DefaultTemperature,
		},
		transcriptLanguages: []string{"en"},
		youtubeRPS:          DefaultYouTubeRPS,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dbURL == "" {
		c.dbURL = "sqlite://" + filepath.Join(c.dataDir, defaultDatabaseFileName)
	}
	// Endpoint accessors must never return nil, unkeyed endpoints just
	// mean the corresponding provider is unavailable.
	if c.embeddingEndpoint == nil {
		c.embeddingEndpoint = NewEndpoint(WithModel(DefaultEmbeddingModel))
	}
	if c.answerEndpoint == nil {
		c.answerEndpoint = NewEndpoint(WithModel(DefaultAnswerModel))
	}
	return c
}

// DefaultDataDir returns the per-user data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDataDirName
	}
	return filepath.Join(home, defaultDataDirName)
}

// PrepareDataDir ensures the data directory exists.
func (c *AppConfig) PrepareDataDir() error {
	if err := os.MkdirAll(c.dataDir, 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
