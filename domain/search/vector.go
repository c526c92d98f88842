package search

import (
	"context"

	"github.com/vidqa/vidqa/domain/store"
)

// VectorStore defines operations for vector similarity search over
// transcript chunks.
type VectorStore interface {
	// Index embeds and stores documents. Existing embeddings for the same
	// chunk IDs are replaced.
	Index(ctx context.Context, request IndexRequest) error

	// Search performs similarity search. The query text is passed via
	// WithQuery, or a pre-computed vector via WithEmbedding.
	Search(ctx context.Context, options ...store.Option) ([]Result, error)

	// HasEmbeddings reports which of the given chunk IDs already have a
	// stored embedding.
	HasEmbeddings(ctx context.Context, chunkIDs []string) (map[string]bool, error)

	// DeleteBy removes embeddings matching the given options.
	DeleteBy(ctx context.Context, options ...store.Option) error
}
