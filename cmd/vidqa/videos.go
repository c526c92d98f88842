package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func videosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "videos",
		Short: "List the indexed videos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			videos, err := client.Library.ListVideos(cmd.Context())
			if err != nil {
				return err
			}
			if len(videos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no videos indexed")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tUPLOADER\tDURATION\tCHUNKS\tINDEXED")
			for _, v := range videos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					v.ID(), v.Title(), v.Uploader(), v.Duration(),
					v.ChunkCount(), v.IndexedAt().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <video-id>",
		Short: "Remove a video and its chunks and embeddings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Library.RemoveVideo(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}
