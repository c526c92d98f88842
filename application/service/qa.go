package service

import (
	"context"
	"fmt"

	"github.com/vidqa/vidqa/domain/qa"
	"github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/domain/store"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/infrastructure/provider"
	"github.com/vidqa/vidqa/internal/config"
	"github.com/vidqa/vidqa/internal/log"
)

// AskOption configures a question.
type AskOption func(*askConfig)

type askConfig struct {
	topK     int
	minScore float64
	videoID  string
	previous string
}

// WithTopK overrides the number of chunks retrieved as context.
func WithTopK(k int) AskOption {
	return func(c *askConfig) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithMinScore drops retrieved chunks scoring below the floor.
func WithMinScore(score float64) AskOption {
	return func(c *askConfig) {
		if score >= 0 {
			c.minScore = score
		}
	}
}

// WithVideo restricts retrieval to a single video.
func WithVideo(videoID string) AskOption {
	return func(c *askConfig) {
		c.videoID = videoID
	}
}

// WithPreviousQuestion carries the prior question of a conversation so a
// short follow-up retrieves against the combined text.
func WithPreviousQuestion(question string) AskOption {
	return func(c *askConfig) {
		c.previous = question
	}
}

// QAService answers questions over the indexed transcripts.
type QAService struct {
	vectors   search.VectorStore
	chunks    video.ChunkStore
	videos    video.Store
	generator provider.TextGenerator
	retrieval config.Retrieval
	logger    *log.Logger
}

// NewQAService creates a QAService. The generator may be nil, in which case
// every answer uses the extractive fallback.
func NewQAService(
	vectors search.VectorStore,
	chunks video.ChunkStore,
	videos video.Store,
	generator provider.TextGenerator,
	cfg *config.AppConfig,
	logger *log.Logger,
) QAService {
	if logger == nil {
		logger = log.Default()
	}
	return QAService{
		vectors:   vectors,
		chunks:    chunks,
		videos:    videos,
		generator: generator,
		retrieval: cfg.Retrieval(),
		logger:    logger,
	}
}

// Sources retrieves the chunks most relevant to a question, hydrated with
// video metadata.
func (s QAService) Sources(ctx context.Context, question string, opts ...AskOption) ([]qa.Source, error) {
	cfg := s.askConfig(opts)
	return s.retrieve(ctx, question, cfg)
}

func (s QAService) askConfig(opts []AskOption) askConfig {
	cfg := askConfig{topK: s.retrieval.TopK()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (s QAService) retrieve(ctx context.Context, question string, cfg askConfig) ([]qa.Source, error) {
	searchOpts := []store.Option{
		search.WithQuery(question),
		store.WithLimit(cfg.topK),
	}
	if cfg.minScore > 0 {
		searchOpts = append(searchOpts, search.WithMinScore(cfg.minScore))
	}
	if cfg.videoID != "" {
		searchOpts = append(searchOpts, store.WithVideoID(cfg.videoID))
	}

	results, err := s.vectors.Search(ctx, searchOpts...)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	if len(results) == 0 {
		return []qa.Source{}, nil
	}

	ids := make([]string, len(results))
	scores := make(map[string]float64, len(results))
	for i, r := range results {
		ids[i] = r.ChunkID()
		scores[r.ChunkID()] = r.Score()
	}

	chunks, err := s.chunks.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	videosByID, err := s.loadVideos(ctx, chunks)
	if err != nil {
		return nil, err
	}

	sources := make([]qa.Source, 0, len(chunks))
	for _, c := range chunks {
		meta := videosByID[c.VideoID()]
		sources = append(sources, qa.NewSource(
			c.ID(),
			c.VideoID(),
			meta.Title(),
			meta.Uploader(),
			c.StartTime(),
			scores[c.ID()],
			c.Text(),
		))
	}
	return sources, nil
}

func (s QAService) loadVideos(ctx context.Context, chunks []video.Chunk) (map[string]video.Video, error) {
	idSet := make(map[string]bool, len(chunks))
	ids := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if !idSet[c.VideoID()] {
			idSet[c.VideoID()] = true
			ids = append(ids, c.VideoID())
		}
	}
	if len(ids) == 0 {
		return map[string]video.Video{}, nil
	}

	videos, err := s.videos.Find(ctx, video.WithIDIn(ids))
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}
	byID := make(map[string]video.Video, len(videos))
	for _, v := range videos {
		byID[v.ID()] = v
	}
	return byID, nil
}

// Ask answers a question using retrieved transcript context. When no chunks
// are relevant the canned no-context answer is returned. When the generator
// is unavailable or fails, an extractive summary of the sources is returned
// instead.
func (s QAService) Ask(ctx context.Context, question string, opts ...AskOption) (qa.Answer, error) {
	cfg := s.askConfig(opts)

	retrievalText := question
	if cfg.previous != "" {
		retrievalText = qa.CombineFollowup(cfg.previous, question)
	}

	sources, err := s.retrieve(ctx, retrievalText, cfg)
	if err != nil {
		return qa.Answer{}, err
	}
	if len(sources) == 0 {
		return qa.NewAnswer(question, qa.NoContextAnswer, nil, false), nil
	}

	if s.generator == nil {
		return qa.NewAnswer(question, qa.ExtractiveAnswer(question, sources), sources, true), nil
	}

	prompt := qa.BuildPrompt(retrievalText, sources)
	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.UserMessage(prompt),
	}).
		WithMaxTokens(s.retrieval.MaxTokens()).
		WithTemperature(s.retrieval.Temperature())

	resp, err := s.generator.ChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return qa.Answer{}, ctx.Err()
		}
		s.logger.WarnContext(ctx, "generation failed, using extractive answer", "error", err)
		return qa.NewAnswer(question, qa.ExtractiveAnswer(question, sources), sources, true), nil
	}

	text := qa.CleanResponse(resp.Content())
	if text == "" {
		return qa.NewAnswer(question, qa.ExtractiveAnswer(question, sources), sources, true), nil
	}
	return qa.NewAnswer(question, text, sources, false), nil
}
