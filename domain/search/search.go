// Package search defines the vector search domain: documents to index,
// similarity results, and the embedder and vector store ports.
package search

import "context"

// Embedder computes embedding vectors for a batch of texts. The returned
// slice has one vector per input text, in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Document is a unit of text to be embedded and indexed, identified by its
// chunk ID.
type Document struct {
	id   string
	text string
}

// NewDocument creates a Document.
func NewDocument(id, text string) Document {
	return Document{id: id, text: text}
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Text returns the document text.
func (d Document) Text() string { return d.text }

// IndexRequest is a batch of documents to index.
type IndexRequest struct {
	documents []Document
}

// NewIndexRequest creates an IndexRequest.
func NewIndexRequest(documents []Document) IndexRequest {
	docs := make([]Document, len(documents))
	copy(docs, documents)
	return IndexRequest{documents: docs}
}

// Documents returns the documents in the request.
func (r IndexRequest) Documents() []Document {
	docs := make([]Document, len(r.documents))
	copy(docs, r.documents)
	return docs
}

// Result is a single similarity search hit.
type Result struct {
	chunkID string
	score   float64
}

// NewResult creates a Result.
func NewResult(chunkID string, score float64) Result {
	return Result{chunkID: chunkID, score: score}
}

// ChunkID returns the matched chunk identifier.
func (r Result) ChunkID() string { return r.chunkID }

// Score returns the cosine similarity score in [0, 1].
func (r Result) Score() float64 { return r.score }
