package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EndpointEnv mirrors the environment variables of a model endpoint.
type EndpointEnv struct {
	BaseURL       string        `envconfig:"BASE_URL"`
	Model         string        `envconfig:"MODEL"`
	APIKey        string        `envconfig:"API_KEY"`
	Timeout       time.Duration `envconfig:"TIMEOUT"`
	NumParallel   int           `envconfig:"NUM_PARALLEL"`
	MaxBatchSize  int           `envconfig:"MAX_BATCH_SIZE"`
	MaxRetries    int           `envconfig:"MAX_RETRIES"`
	InitialDelay  time.Duration `envconfig:"INITIAL_DELAY"`
	BackoffFactor float64       `envconfig:"BACKOFF_FACTOR"`
}

func (e EndpointEnv) toEndpoint() *Endpoint {
	opts := []EndpointOption{}
	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.Model != "" {
		opts = append(opts, WithModel(e.Model))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}
	if e.Timeout > 0 {
		opts = append(opts, WithTimeout(e.Timeout))
	}
	if e.NumParallel > 0 {
		opts = append(opts, WithNumParallel(e.NumParallel))
	}
	if e.MaxBatchSize > 0 {
		opts = append(opts, WithMaxBatchSize(e.MaxBatchSize))
	}
	if e.MaxRetries > 0 {
		opts = append(opts, WithMaxRetries(e.MaxRetries))
	}
	if e.InitialDelay > 0 {
		opts = append(opts, WithInitialDelay(e.InitialDelay))
	}
	if e.BackoffFactor > 0 {
		opts = append(opts, WithBackoffFactor(e.BackoffFactor))
	}
	return NewEndpoint(opts...)
}

func (e EndpointEnv) isZero() bool {
	return e.BaseURL == "" && e.Model == "" && e.APIKey == ""
}

// EnvConfig mirrors the process environment. It is converted to an
// AppConfig after loading.
type EnvConfig struct {
	Host                string      `envconfig:"HOST"`
	Port                int         `envconfig:"PORT"`
	DataDir             string      `envconfig:"DATA_DIR"`
	DBURL               string      `envconfig:"DB_URL"`
	LogLevel            string      `envconfig:"LOG_LEVEL"`
	LogFormat           string      `envconfig:"LOG_FORMAT"`
	APIKeys             string      `envconfig:"API_KEYS"`
	OpenAIAPIKey        string      `envconfig:"OPENAI_API_KEY"`
	Embedding           EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`
	Answer              EndpointEnv `envconfig:"ANSWER_ENDPOINT"`
	ChunkSize           int         `envconfig:"CHUNK_SIZE"`
	ChunkOverlap        int         `envconfig:"CHUNK_OVERLAP"`
	TopK                int         `envconfig:"TOP_K"`
	MaxTokens           int         `envconfig:"MAX_TOKENS"`
	Temperature         float64     `envconfig:"TEMPERATURE"`
	TranscriptLanguages string      `envconfig:"TRANSCRIPT_LANGUAGES"`
	YouTubeRPS          float64     `envconfig:"YOUTUBE_RPS"`
}

// LoadFromEnv reads the configuration from the process environment.
func LoadFromEnv() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

// Normalize fills in values that depend on other values. The bare
// OPENAI_API_KEY is accepted as a shorthand for keying both endpoints.
func (e *EnvConfig) Normalize() *EnvConfig {
	if e.OpenAIAPIKey != "" {
		if e.Embedding.APIKey == "" {
			e.Embedding.APIKey = e.OpenAIAPIKey
		}
		if e.Answer.APIKey == "" {
			e.Answer.APIKey = e.OpenAIAPIKey
		}
	}
	if e.Embedding.Model == "" && !e.Embedding.isZero() {
		e.Embedding.Model = DefaultEmbeddingModel
	}
	if e.Answer.Model == "" && !e.Answer.isZero() {
		e.Answer.Model = DefaultAnswerModel
	}
	return e
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ToAppConfig converts the environment view into an AppConfig.
func (e *EnvConfig) ToAppConfig() *AppConfig {
	opts := []Option{}
	if e.Host != "" {
		opts = append(opts, WithHost(e.Host))
	}
	if e.Port != 0 {
		opts = append(opts, WithPort(e.Port))
	}
	if e.DataDir != "" {
		opts = append(opts, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		opts = append(opts, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		opts = append(opts, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		opts = append(opts, WithLogFormat(LogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		opts = append(opts, WithAPIKeys(splitList(e.APIKeys)))
	}
	if !e.Embedding.isZero() {
		opts = append(opts, WithEmbeddingEndpoint(e.Embedding.toEndpoint()))
	}
	if !e.Answer.isZero() {
		opts = append(opts, WithAnswerEndpoint(e.Answer.toEndpoint()))
	}
	if e.ChunkSize > 0 {
		opts = append(opts, WithChunkSize(e.ChunkSize))
	}
	if e.ChunkOverlap > 0 {
		opts = append(opts, WithChunkOverlap(e.ChunkOverlap))
	}
	if e.TopK > 0 {
		opts = append(opts, WithTopK(e.TopK))
	}
	if e.MaxTokens > 0 {
		opts = append(opts, WithMaxTokens(e.MaxTokens))
	}
	if e.Temperature > 0 {
		opts = append(opts, WithTemperature(e.Temperature))
	}
	if e.TranscriptLanguages != "" {
		opts = append(opts, WithTranscriptLanguages(splitList(e.TranscriptLanguages)))
	}
	if e.YouTubeRPS > 0 {
		opts = append(opts, WithYouTubeRPS(e.YouTubeRPS))
	}
	return NewAppConfig(opts...)
}
