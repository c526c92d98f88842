package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidqa/vidqa"
	"github.com/vidqa/vidqa/internal/log"
	"github.com/vidqa/vidqa/internal/mcp"
)

func stdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Run the MCP server over stdio",
		Long: `Run the Model Context Protocol server over standard input and output.

Intended to be launched by an MCP client such as an editor or agent.
Logs go to stderr because stdout carries the protocol stream.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// stdout belongs to the MCP transport.
			logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
			log.SetDefaultLogger(logger)

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

			return mcp.NewServer(client.QA, client.Library, version, logger).ServeStdio()
		},
	}
}
