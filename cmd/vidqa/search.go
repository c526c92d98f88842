package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/domain/video"
)

func searchCmd() *cobra.Command {
	var (
		topK    int
		videoID string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find transcript chunks similar to a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			var opts []service.AskOption
			if topK > 0 {
				opts = append(opts, service.WithTopK(topK))
			}
			if videoID != "" {
				opts = append(opts, service.WithVideo(videoID))
			}

			sources, err := client.QA.Sources(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, s := range sources {
				fmt.Fprintf(out, "[%.2f] %s (%s) at %s\n  %s\n",
					s.Score(), s.Title(), s.VideoID(), video.FormatTimestamp(s.Start()), s.Text())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 0, "Number of transcript chunks to retrieve")
	cmd.Flags().StringVar(&videoID, "video", "", "Restrict the search to a single video ID")

	return cmd
}
