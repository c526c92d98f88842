package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidqa/vidqa/application/service"
)

func addCmd() *cobra.Command {
	var forceRefresh bool

	cmd := &cobra.Command{
		Use:   "add <url-or-id>...",
		Short: "Fetch, index, and embed one or more videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			results := client.Library.AddVideos(cmd.Context(), args,
				service.WithForceRefresh(forceRefresh))

			failed := 0
			for _, r := range results {
				if r.Err() != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "failed  %s: %v\n", r.Input(), r.Err())
					continue
				}
				v := r.Video()
				fmt.Fprintf(cmd.OutOrStdout(), "indexed %s  %q (%d chunks)\n",
					v.ID(), v.Title(), v.ChunkCount())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d videos failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "Refetch the transcript even when cached")

	return cmd
}
