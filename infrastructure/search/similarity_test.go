package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, expected: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, expected: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, expected: -1},
		{name: "length mismatch", a: []float64{1, 2}, b: []float64{1, 2, 3}, expected: 0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 2}, expected: 0},
		{name: "empty", a: nil, b: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestTopKSimilar(t *testing.T) {
	vectors := []StoredVector{
		NewStoredVector("vid1:0", []float64{1, 0, 0}),
		NewStoredVector("vid1:1", []float64{0.9, 0.1, 0}),
		NewStoredVector("vid2:0", []float64{0, 1, 0}),
		NewStoredVector("vid2:1", []float64{0, 0, 1}),
	}
	query := []float64{1, 0, 0}

	matches := TopKSimilar(query, vectors, 2, 0)
	assert.Len(t, matches, 2)
	assert.Equal(t, "vid1:0", matches[0].ChunkID())
	assert.Equal(t, "vid1:1", matches[1].ChunkID())
	assert.Greater(t, matches[0].Similarity(), matches[1].Similarity())
}

func TestTopKSimilarMinScore(t *testing.T) {
	vectors := []StoredVector{
		NewStoredVector("a", []float64{1, 0}),
		NewStoredVector("b", []float64{0, 1}),
	}

	matches := TopKSimilar([]float64{1, 0}, vectors, 10, 0.5)
	assert.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ChunkID())
}

func TestTopKSimilarKLargerThanSet(t *testing.T) {
	vectors := []StoredVector{NewStoredVector("a", []float64{1, 0})}
	matches := TopKSimilar([]float64{1, 0}, vectors, 5, 0)
	assert.Len(t, matches, 1)
}

func TestTopKSimilarEmpty(t *testing.T) {
	assert.Empty(t, TopKSimilar([]float64{1}, nil, 5, 0))
	assert.Empty(t, TopKSimilar([]float64{1}, []StoredVector{NewStoredVector("a", []float64{1})}, 0, 0))
}

func TestVideoIDOf(t *testing.T) {
	assert.Equal(t, "dQw4w9WgXcQ", videoIDOf("dQw4w9WgXcQ:3"))
	assert.Equal(t, "plain", videoIDOf("plain"))
}
