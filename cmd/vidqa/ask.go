package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/domain/video"
)

func askCmd() *cobra.Command {
	var (
		topK        int
		minScore    float64
		videoID     string
		showSources bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the indexed videos",
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
			if minScore > 0 {
				opts = append(opts, service.WithMinScore(minScore))
			}
			if videoID != "" {
				opts = append(opts, service.WithVideo(videoID))
			}

			answer, err := client.QA.Ask(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, answer.Text())
			if answer.Fallback() {
				fmt.Fprintln(out, "\n(extracted from transcripts, no answer model configured)")
			}
			if showSources && len(answer.Sources()) > 0 {
				fmt.Fprintln(out, "\nSources:")
				for _, s := range answer.Sources() {
					fmt.Fprintf(out, "  [%.2f] %s (%s) at %s\n",
						s.Score(), s.Title(), s.VideoID(), video.FormatTimestamp(s.Start()))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 0, "Number of transcript chunks to retrieve")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Minimum similarity score for retrieved chunks")
	cmd.Flags().StringVar(&videoID, "video", "", "Restrict retrieval to a single video ID")
	cmd.Flags().BoolVar(&showSources, "show-sources", false, "Print the source chunks the answer drew on")

	return cmd
}
