package search

import "github.com/vidqa/vidqa/domain/store"

// WithChunkID filters by a single chunk ID.
func WithChunkID(id string) store.Option {
	return store.WithCondition("chunk_id", id)
}

// WithChunkIDs filters by multiple chunk IDs.
func WithChunkIDs(ids []string) store.Option {
	return store.WithConditionIn("chunk_id", ids)
}

// WithEmbedding passes a pre-computed embedding vector through options.
func WithEmbedding(embedding []float64) store.Option {
	return store.WithParam("embedding", embedding)
}

// WithQuery passes a search query string through options.
func WithQuery(query string) store.Option {
	return store.WithParam("search_query", query)
}

// WithMinScore passes a similarity floor through options. Results scoring
// below the floor are dropped.
func WithMinScore(score float64) store.Option {
	return store.WithParam("min_score", score)
}

// EmbeddingFrom extracts the embedding vector from a built query.
func EmbeddingFrom(q store.Query) ([]float64, bool) {
	v, ok := q.Param("embedding")
	if !ok {
		return nil, false
	}
	emb, ok := v.([]float64)
	return emb, ok
}

// QueryFrom extracts the search query text from a built query.
func QueryFrom(q store.Query) (string, bool) {
	v, ok := q.Param("search_query")
	if !ok {
		return "", false
	}
	text, ok := v.(string)
	return text, ok
}

// MinScoreFrom extracts the similarity floor from a built query.
func MinScoreFrom(q store.Query) (float64, bool) {
	v, ok := q.Param("min_score")
	if !ok {
		return 0, false
	}
	score, ok := v.(float64)
	return score, ok
}

// ChunkIDsFrom extracts chunk IDs from conditions on a built query.
func ChunkIDsFrom(q store.Query) []string {
	for _, cond := range q.Conditions() {
		if cond.Field() == "chunk_id" && cond.In() {
			if ids, ok := cond.Value().([]string); ok {
				return ids
			}
		}
	}
	return nil
}
