package video

import (
	"context"

	"github.com/vidqa/vidqa/domain/store"
)

// Store defines persistence for indexed videos.
type Store interface {
	// Save inserts or replaces a video record.
	Save(ctx context.Context, v Video) error

	// Find retrieves videos matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]Video, error)

	// FindOne retrieves a single video matching the given options.
	FindOne(ctx context.Context, options ...store.Option) (Video, error)

	// Exists checks whether any video matches the given options.
	Exists(ctx context.Context, options ...store.Option) (bool, error)

	// Count returns the number of matching videos.
	Count(ctx context.Context, options ...store.Option) (int64, error)

	// DeleteBy removes videos matching the given options.
	DeleteBy(ctx context.Context, options ...store.Option) error
}

// ChunkStore defines persistence for transcript chunks.
type ChunkStore interface {
	// ReplaceAll atomically replaces the chunks of a video.
	ReplaceAll(ctx context.Context, videoID string, chunks []Chunk) error

	// Find retrieves chunks matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]Chunk, error)

	// FindByIDs retrieves chunks by their chunk IDs, preserving input order.
	FindByIDs(ctx context.Context, ids []string) ([]Chunk, error)

	// Count returns the number of matching chunks.
	Count(ctx context.Context, options ...store.Option) (int64, error)

	// DeleteBy removes chunks matching the given options.
	DeleteBy(ctx context.Context, options ...store.Option) error
}

// TranscriptCache caches fetched transcripts so repeated indexing does not
// hit YouTube again.
type TranscriptCache interface {
	// Get returns the cached transcript, or ok=false when absent.
	Get(ctx context.Context, videoID string) (Transcript, bool, error)

	// Put stores a transcript.
	Put(ctx context.Context, t Transcript) error

	// Delete removes a cached transcript.
	Delete(ctx context.Context, videoID string) error
}
