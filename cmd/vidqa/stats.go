package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			stats, err := client.Library.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "videos:          %d\n", stats.VideoCount())
			fmt.Fprintf(out, "chunks:          %d\n", stats.ChunkCount())
			fmt.Fprintf(out, "embedding model: %s\n", orNone(stats.EmbeddingModel()))
			fmt.Fprintf(out, "answer model:    %s\n", orNone(stats.AnswerModel()))
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
