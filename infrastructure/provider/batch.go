package provider

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vidqa/vidqa/domain/search"
)

// BatchEmbedder splits large embedding requests into batches and runs a
// bounded number of upstream calls in parallel. Result order matches input
// order. It implements the domain search.Embedder interface on top of a
// provider Embedder.
type BatchEmbedder struct {
	upstream  Embedder
	batchSize int
	parallel  int
}

// NewBatchEmbedder wraps an Embedder with batching. batchSize and parallel
// fall back to sane defaults when non-positive.
func NewBatchEmbedder(upstream Embedder, batchSize, parallel int) *BatchEmbedder {
	if batchSize <= 0 {
		batchSize = 64
	}
	if parallel <= 0 {
		parallel = 4
	}
	return &BatchEmbedder{
		upstream:  upstream,
		batchSize: batchSize,
		parallel:  parallel,
	}
}

// Embed embeds all texts, batching upstream calls.
func (b *BatchEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float64, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallel)

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end

		g.Go(func() error {
			resp, err := b.upstream.Embed(ctx, NewEmbeddingRequest(texts[start:end]))
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
			}
			vectors := resp.Embeddings()
			if len(vectors) != end-start {
				return fmt.Errorf("embed batch [%d:%d]: got %d vectors", start, end, len(vectors))
			}
			copy(out[start:], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the upstream embedder.
func (b *BatchEmbedder) Close() error {
	return b.upstream.Close()
}

var _ search.Embedder = (*BatchEmbedder)(nil)
