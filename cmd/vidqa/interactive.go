package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidqa/vidqa"
	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/domain/video"
)

func interactiveCmd() *cobra.Command {
	var (
		topK        int
		videoID     string
		showSources bool
	)

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive Q&A session",
		Long: `Start a read-eval loop that answers questions about the indexed
videos. Each question carries the previous one as context, so short
follow-ups like "what about buffered ones?" stay on topic.

Inline commands: "videos" lists the library, "stats" prints library
statistics, "quit" or "exit" ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			return runInteractiveSession(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(),
				client, topK, videoID, showSources)
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 0, "Number of transcript chunks to retrieve")
	cmd.Flags().StringVar(&videoID, "video", "", "Restrict retrieval to a single video ID")
	cmd.Flags().BoolVar(&showSources, "show-sources", false, "Print the source chunks each answer drew on")

	return cmd
}

// runInteractiveSession reads questions line by line, carrying the previous
// question so follow-ups retrieve against the whole exchange.
func runInteractiveSession(ctx context.Context, in io.Reader, out io.Writer,
	client *vidqa.Client, topK int, videoID string, showSources bool,
) error {
	fmt.Fprintln(out, "Ask a question, or type 'videos', 'stats', 'quit'.")

	var previous string
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			return scanner.Err()
		case "videos":
			videos, err := client.Library.ListVideos(ctx)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			if len(videos) == 0 {
				fmt.Fprintln(out, "no videos indexed")
				continue
			}
			for _, v := range videos {
				fmt.Fprintf(out, "  %s  %s (%s)\n", v.ID(), v.Title(), v.Uploader())
			}
			continue
		case "stats":
			stats, err := client.Library.Stats(ctx)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "  videos: %d  chunks: %d\n", stats.VideoCount(), stats.ChunkCount())
			continue
		}

		opts := []service.AskOption{}
		if topK > 0 {
			opts = append(opts, service.WithTopK(topK))
		}
		if videoID != "" {
			opts = append(opts, service.WithVideo(videoID))
		}
		if previous != "" {
			opts = append(opts, service.WithPreviousQuestion(previous))
		}

		answer, err := client.QA.Ask(ctx, line, opts...)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		previous = line

		fmt.Fprintln(out, answer.Text())
		if answer.Fallback() {
			fmt.Fprintln(out, "(extracted from transcripts, no answer model configured)")
		}
		if showSources && len(answer.Sources()) > 0 {
			fmt.Fprintln(out, "Sources:")
			for _, s := range answer.Sources() {
				fmt.Fprintf(out, "  [%.2f] %s (%s) at %s\n",
					s.Score(), s.Title(), s.VideoID(), video.FormatTimestamp(s.Start()))
			}
		}
	}
	return scanner.Err()
}
