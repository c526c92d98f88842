package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidqa/vidqa"
	"github.com/vidqa/vidqa/infrastructure/api"
	"github.com/vidqa/vidqa/internal/config"
	"github.com/vidqa/vidqa/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server with the web UI and JSON API",
		Long: `Start the HTTP server hosting the web UI, the JSON API, and the MCP
endpoint.

Configuration is loaded in the following order (later sources override
earlier):
  1. Default values
  2. .env file (if --env-file is given or .env exists in the current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                       Server host to bind to (default: 127.0.0.1)
  PORT                       Server port to listen on (default: 8080)
  DATA_DIR                   Data directory (default: ~/.vidqa)
  DB_URL                     Database URL, sqlite://path or postgres://dsn
  LOG_LEVEL                  Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                 Log format: pretty, text, json (default: pretty)
  API_KEYS                   Comma-separated keys protecting mutating endpoints

  OPENAI_API_KEY             Key used for both embeddings and answers
  EMBEDDING_ENDPOINT_*       Embedding service configuration
    BASE_URL                 OpenAI-compatible base URL
    MODEL                    Model identifier (default: text-embedding-3-small)
    API_KEY                  API key
  ANSWER_ENDPOINT_*          Answer model configuration (same fields,
                             default model: gpt-4o-mini)

  CHUNK_SIZE                 Transcript chunk size in characters (default: 1000)
  CHUNK_OVERLAP              Chunk overlap in characters (default: 200)
  TOP_K                      Chunks retrieved per question (default: 5)
  TRANSCRIPT_LANGUAGES       Caption language preference (default: en)`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, host string, port int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var overrides []config.Option
	if host != "" {
		overrides = append(overrides, config.WithHost(host))
	}
	if port != 0 {
		overrides = append(overrides, config.WithPort(port))
	}
	cfg = cfg.Apply(overrides...)

	logger := log.Configure(cfg)

	client, err := vidqa.New(
		vidqa.WithConfig(cfg),
		vidqa.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close client", "error", err)
		}
	}()

	server := api.NewAPIServer(client.Library, client.QA, cfg.APIKeys(), version, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting vidqa", "version", version, "addr", cfg.Addr())
	return server.ListenAndServe(cfg.Addr())
}
