// Package main is the entry point for the vidqa CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidqa/vidqa"
	"github.com/vidqa/vidqa/internal/config"
	"github.com/vidqa/vidqa/internal/log"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vidqa",
		Short: "Ask questions about YouTube videos",
		Long: `vidqa indexes YouTube video transcripts and answers questions about
them using retrieval-augmented generation.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("env-file", "", "Path to .env file (default: .env in current directory)")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(addCmd())
	cmd.AddCommand(askCmd())
	cmd.AddCommand(interactiveCmd())
	cmd.AddCommand(searchCmd())
	cmd.AddCommand(videosCmd())
	cmd.AddCommand(removeCmd())
	cmd.AddCommand(statsCmd())
	cmd.AddCommand(clearCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from the .env file and environment.
func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	var paths []string
	if envFile != "" {
		paths = append(paths, envFile)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newClient builds a vidqa client from the environment configuration.
func newClient(cmd *cobra.Command) (*vidqa.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := log.Configure(cfg)
	return vidqa.New(
		vidqa.WithConfig(cfg),
		vidqa.WithLogger(logger),
	)
}
