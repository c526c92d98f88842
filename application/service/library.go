// Package service provides application layer services that orchestrate
// domain operations.
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/domain/store"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/infrastructure/chunking"
	"github.com/vidqa/vidqa/internal/config"
	"github.com/vidqa/vidqa/internal/database"
	"github.com/vidqa/vidqa/internal/log"
)

// Default bound on concurrent video additions.
const defaultAddParallelism = 4

// TranscriptFetcher loads video metadata and captions from YouTube.
type TranscriptFetcher interface {
	FetchVideo(ctx context.Context, videoID string, languages []string) (video.Video, video.Transcript, error)
}

// AddOption configures a video addition.
type AddOption func(*addConfig)

type addConfig struct {
	forceRefresh bool
}

// WithForceRefresh bypasses the transcript cache and refetches from YouTube.
func WithForceRefresh(force bool) AddOption {
	return func(c *addConfig) {
		c.forceRefresh = force
	}
}

// AddResult is the outcome of adding one video in a batch.
type AddResult struct {
	input string
	video video.Video
	err   error
}

// Input returns the URL or ID that was submitted.
func (r AddResult) Input() string { return r.input }

// Video returns the indexed video. Only valid when Err is nil.
func (r AddResult) Video() video.Video { return r.video }

// Err returns the error for this input, or nil on success.
func (r AddResult) Err() error { return r.err }

// LibraryStats summarizes the indexed library.
type LibraryStats struct {
	videoCount     int64
	chunkCount     int64
	embeddingModel string
	answerModel    string
}

// VideoCount returns the number of indexed videos.
func (s LibraryStats) VideoCount() int64 { return s.videoCount }

// ChunkCount returns the number of stored chunks.
func (s LibraryStats) ChunkCount() int64 { return s.chunkCount }

// EmbeddingModel returns the embedding model in use.
func (s LibraryStats) EmbeddingModel() string { return s.embeddingModel }

// AnswerModel returns the answer model in use.
func (s LibraryStats) AnswerModel() string { return s.answerModel }

// LibraryService manages the video library: fetching transcripts, chunking,
// embedding, and the stored metadata.
type LibraryService struct {
	fetcher     TranscriptFetcher
	videos      video.Store
	chunks      video.ChunkStore
	transcripts video.TranscriptCache
	vectors     search.VectorStore
	params      chunking.Params
	languages   []string
	parallel    int
	stats       LibraryStats
	logger      *log.Logger
}

// NewLibraryService creates a LibraryService.
func NewLibraryService(
	fetcher TranscriptFetcher,
	videos video.Store,
	chunks video.ChunkStore,
	transcripts video.TranscriptCache,
	vectors search.VectorStore,
	cfg *config.AppConfig,
	logger *log.Logger,
) LibraryService {
	if logger == nil {
		logger = log.Default()
	}
	return LibraryService{
		fetcher:     fetcher,
		videos:      videos,
		chunks:      chunks,
		transcripts: transcripts,
		vectors:     vectors,
		params: chunking.Params{
			Size:    cfg.Retrieval().ChunkSize(),
			Overlap: cfg.Retrieval().ChunkOverlap(),
		},
		languages: cfg.TranscriptLanguages(),
		parallel:  defaultAddParallelism,
		stats: LibraryStats{
			embeddingModel: cfg.EmbeddingEndpoint().Model(),
			answerModel:    cfg.AnswerEndpoint().Model(),
		},
		logger: logger,
	}
}

// AddVideo fetches, chunks, embeds, and stores a single video. Re-adding an
// already indexed video replaces its chunks and embeddings.
func (s LibraryService) AddVideo(ctx context.Context, input string, opts ...AddOption) (video.Video, error) {
	cfg := addConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	videoID, err := video.ParseVideoID(input)
	if err != nil {
		return video.Video{}, err
	}

	meta, transcript, err := s.loadTranscript(ctx, videoID, cfg.forceRefresh)
	if err != nil {
		return video.Video{}, err
	}

	chunks, err := chunking.ChunkTranscript(transcript, s.params)
	if err != nil {
		return video.Video{}, fmt.Errorf("chunk transcript %s: %w", videoID, err)
	}
	if len(chunks) == 0 {
		return video.Video{}, fmt.Errorf("%w: %s", ErrEmptyTranscript, videoID)
	}

	s.logger.InfoContext(ctx, "indexing video",
		"video_id", videoID, "title", meta.Title(), "chunks", len(chunks))

	if err := s.chunks.ReplaceAll(ctx, videoID, chunks); err != nil {
		return video.Video{}, fmt.Errorf("store chunks %s: %w", videoID, err)
	}

	// Stale embeddings from a previous, longer chunking must not survive.
	if err := s.vectors.DeleteBy(ctx, store.WithVideoID(videoID)); err != nil {
		return video.Video{}, fmt.Errorf("clear embeddings %s: %w", videoID, err)
	}

	docs := make([]search.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = search.NewDocument(c.ID(), c.Text())
	}
	if err := s.vectors.Index(ctx, search.NewIndexRequest(docs)); err != nil {
		return video.Video{}, fmt.Errorf("index embeddings %s: %w", videoID, err)
	}

	indexed := meta.WithChunkCount(len(chunks))
	if err := s.videos.Save(ctx, indexed); err != nil {
		return video.Video{}, fmt.Errorf("store video %s: %w", videoID, err)
	}
	return indexed, nil
}

// loadTranscript returns cached metadata and transcript when available,
// fetching from YouTube otherwise.
func (s LibraryService) loadTranscript(ctx context.Context, videoID string, forceRefresh bool) (video.Video, video.Transcript, error) {
	if !forceRefresh {
		cached, ok, err := s.transcripts.Get(ctx, videoID)
		if err != nil {
			return video.Video{}, video.Transcript{}, fmt.Errorf("read transcript cache: %w", err)
		}
		if ok {
			meta, err := s.videos.FindOne(ctx, video.WithID(videoID))
			if err == nil {
				s.logger.DebugContext(ctx, "transcript cache hit", "video_id", videoID)
				return meta, cached, nil
			}
			if !errors.Is(err, database.ErrNotFound) {
				return video.Video{}, video.Transcript{}, err
			}
			// Transcript cached but metadata missing, refetch both.
		}
	}

	meta, transcript, err := s.fetcher.FetchVideo(ctx, videoID, s.languages)
	if err != nil {
		return video.Video{}, video.Transcript{}, err
	}
	if err := s.transcripts.Put(ctx, transcript); err != nil {
		return video.Video{}, video.Transcript{}, fmt.Errorf("cache transcript: %w", err)
	}
	return meta, transcript, nil
}

// AddVideos adds a batch of videos with bounded concurrency. Failures are
// reported per input rather than aborting the batch.
func (s LibraryService) AddVideos(ctx context.Context, inputs []string, opts ...AddOption) []AddResult {
	results := make([]AddResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for i, input := range inputs {
		g.Go(func() error {
			v, err := s.AddVideo(gctx, input, opts...)
			results[i] = AddResult{input: input, video: v, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ListVideos returns all indexed videos, most recently indexed first.
func (s LibraryService) ListVideos(ctx context.Context) ([]video.Video, error) {
	return s.videos.Find(ctx, store.WithOrderDesc("indexed_at"))
}

// Video returns a single indexed video by ID.
func (s LibraryService) Video(ctx context.Context, videoID string) (video.Video, error) {
	v, err := s.videos.FindOne(ctx, video.WithID(videoID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return video.Video{}, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
		}
		return video.Video{}, err
	}
	return v, nil
}

// RemoveVideo deletes a video with its chunks, embeddings, and cached
// transcript.
func (s LibraryService) RemoveVideo(ctx context.Context, videoID string) error {
	exists, err := s.videos.Exists(ctx, video.WithID(videoID))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	if err := s.vectors.DeleteBy(ctx, store.WithVideoID(videoID)); err != nil {
		return fmt.Errorf("delete embeddings %s: %w", videoID, err)
	}
	if err := s.chunks.DeleteBy(ctx, store.WithVideoID(videoID)); err != nil {
		return fmt.Errorf("delete chunks %s: %w", videoID, err)
	}
	if err := s.transcripts.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("delete cached transcript %s: %w", videoID, err)
	}
	if err := s.videos.DeleteBy(ctx, video.WithID(videoID)); err != nil {
		return fmt.Errorf("delete video %s: %w", videoID, err)
	}

	s.logger.InfoContext(ctx, "removed video", "video_id", videoID)
	return nil
}

// Stats returns counts and the models in use.
func (s LibraryService) Stats(ctx context.Context) (LibraryStats, error) {
	videoCount, err := s.videos.Count(ctx)
	if err != nil {
		return LibraryStats{}, err
	}
	chunkCount, err := s.chunks.Count(ctx)
	if err != nil {
		return LibraryStats{}, err
	}
	stats := s.stats
	stats.videoCount = videoCount
	stats.chunkCount = chunkCount
	return stats, nil
}

// Clear removes every video, chunk, embedding, and cached transcript.
func (s LibraryService) Clear(ctx context.Context) error {
	videos, err := s.videos.Find(ctx)
	if err != nil {
		return err
	}

	if err := s.vectors.DeleteBy(ctx); err != nil {
		return fmt.Errorf("clear embeddings: %w", err)
	}
	if err := s.chunks.DeleteBy(ctx); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	for _, v := range videos {
		if err := s.transcripts.Delete(ctx, v.ID()); err != nil {
			return fmt.Errorf("clear cached transcript %s: %w", v.ID(), err)
		}
	}
	if err := s.videos.DeleteBy(ctx); err != nil {
		return fmt.Errorf("clear videos: %w", err)
	}

	s.logger.InfoContext(ctx, "cleared library", "videos", len(videos))
	return nil
}
