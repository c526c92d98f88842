// Package mcp exposes the video library over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/domain/qa"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/internal/log"
)

// Answerer answers questions over the indexed transcripts.
type Answerer interface {
	Ask(ctx context.Context, question string, opts ...service.AskOption) (qa.Answer, error)
	Sources(ctx context.Context, question string, opts ...service.AskOption) ([]qa.Source, error)
}

// Librarian lists the indexed videos.
type Librarian interface {
	ListVideos(ctx context.Context) ([]video.Video, error)
}

// Server wraps the MCP server with the vidqa tools.
type Server struct {
	mcpServer *server.MCPServer
	answerer  Answerer
	librarian Librarian
	logger    *log.Logger
}

// NewServer creates an MCP server exposing ask_question,
// search_transcripts, and list_videos.
func NewServer(answerer Answerer, librarian Librarian, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		answerer:  answerer,
		librarian: librarian,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"vidqa",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.mcpServer = mcpServer
	return s
}

// MCPServer returns the underlying server for transport mounting.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	askTool := mcp.NewTool("ask_question",
		mcp.WithDescription("Answer a question using the indexed YouTube video transcripts"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Number of transcript chunks to retrieve as context (default: 5)"),
		),
		mcp.WithString("video_id",
			mcp.Description("Restrict retrieval to a single video"),
		),
	)
	mcpServer.AddTool(askTool, s.handleAsk)

	searchTool := mcp.NewTool("search_transcripts",
		mcp.WithDescription("Find transcript excerpts relevant to a query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Number of results to return (default: 5)"),
		),
		mcp.WithString("video_id",
			mcp.Description("Restrict search to a single video"),
		),
	)
	mcpServer.AddTool(searchTool, s.handleSearch)

	listTool := mcp.NewTool("list_videos",
		mcp.WithDescription("List the videos in the transcript library"),
	)
	mcpServer.AddTool(listTool, s.handleListVideos)
}

func toolOptions(request mcp.CallToolRequest) []service.AskOption {
	var opts []service.AskOption
	if topK := request.GetInt("top_k", 0); topK > 0 {
		opts = append(opts, service.WithTopK(topK))
	}
	if videoID := request.GetString("video_id", ""); videoID != "" {
		opts = append(opts, service.WithVideo(videoID))
	}
	return opts
}

type sourcePayload struct {
	ChunkID   string  `json:"chunk_id"`
	VideoID   string  `json:"video_id"`
	Title     string  `json:"title"`
	Timestamp string  `json:"timestamp"`
	Score     float64 `json:"score"`
	Text      string  `json:"text"`
}

func sourcePayloads(sources []qa.Source) []sourcePayload {
	out := make([]sourcePayload, len(sources))
	for i, src := range sources {
		out[i] = sourcePayload{
			ChunkID:   src.ChunkID(),
			VideoID:   src.VideoID(),
			Title:     src.Title(),
			Timestamp: video.FormatTimestamp(src.Start()),
			Score:     src.Score(),
			Text:      src.Text(),
		}
	}
	return out
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question is required"), nil
	}

	answer, err := s.answerer.Ask(ctx, question, toolOptions(request)...)
	if err != nil {
		s.logger.ErrorContext(ctx, "ask tool failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", err)), nil
	}

	payload := struct {
		Answer   string          `json:"answer"`
		Fallback bool            `json:"fallback"`
		Sources  []sourcePayload `json:"sources"`
	}{
		Answer:   answer.Text(),
		Fallback: answer.Fallback(),
		Sources:  sourcePayloads(answer.Sources()),
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	sources, err := s.answerer.Sources(ctx, query, toolOptions(request)...)
	if err != nil {
		s.logger.ErrorContext(ctx, "search tool failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	jsonBytes, err := json.Marshal(sourcePayloads(sources))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListVideos(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videos, err := s.librarian.ListVideos(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list tool failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}

	type videoPayload struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		Uploader   string `json:"uploader"`
		Duration   string `json:"duration"`
		ChunkCount int    `json:"chunk_count"`
		URL        string `json:"url"`
	}

	payload := make([]videoPayload, len(videos))
	for i, v := range videos {
		payload[i] = videoPayload{
			ID:         v.ID(),
			Title:      v.Title(),
			Uploader:   v.Uploader(),
			Duration:   video.FormatTimestamp(v.Duration()),
			ChunkCount: v.ChunkCount(),
			URL:        v.URL(),
		}
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
