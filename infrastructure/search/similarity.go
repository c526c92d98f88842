// Package search implements vector similarity search over transcript chunk
// embeddings, with a brute-force SQLite backend and a pgvector backend.
package search

import (
	"math"
	"sort"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical), or 0 if the
// vectors differ in length or either has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Match holds a chunk ID and its similarity score.
type Match struct {
	chunkID    string
	similarity float64
}

// NewMatch creates a Match.
func NewMatch(chunkID string, similarity float64) Match {
	return Match{chunkID: chunkID, similarity: similarity}
}

// ChunkID returns the chunk identifier.
func (m Match) ChunkID() string { return m.chunkID }

// Similarity returns the similarity score.
func (m Match) Similarity() float64 { return m.similarity }

// StoredVector holds an embedding vector with its chunk ID.
type StoredVector struct {
	chunkID   string
	embedding []float64
}

// NewStoredVector creates a StoredVector.
func NewStoredVector(chunkID string, embedding []float64) StoredVector {
	vec := make([]float64, len(embedding))
	copy(vec, embedding)
	return StoredVector{chunkID: chunkID, embedding: vec}
}

// ChunkID returns the chunk identifier.
func (v StoredVector) ChunkID() string { return v.chunkID }

// Embedding returns a copy of the embedding vector.
func (v StoredVector) Embedding() []float64 {
	result := make([]float64, len(v.embedding))
	copy(result, v.embedding)
	return result
}

// TopKSimilar finds the k vectors most similar to the query, sorted by
// similarity descending. Vectors scoring below minScore are dropped.
func TopKSimilar(query []float64, vectors []StoredVector, k int, minScore float64) []Match {
	if len(vectors) == 0 || k <= 0 {
		return []Match{}
	}

	matches := make([]Match, 0, len(vectors))
	for _, v := range vectors {
		similarity := CosineSimilarity(query, v.embedding)
		if similarity < minScore {
			continue
		}
		matches = append(matches, NewMatch(v.chunkID, similarity))
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
