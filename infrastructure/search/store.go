package search

import (
	"github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/internal/database"
	"github.com/vidqa/vidqa/internal/log"
)

// NewVectorStore selects the vector store implementation for the configured
// database: pgvector on PostgreSQL, brute-force JSON embeddings on SQLite.
func NewVectorStore(db database.Database, embedder search.Embedder, logger *log.Logger) search.VectorStore {
	if db.IsPostgres() {
		return NewPgVectorStore(db, embedder, logger)
	}
	return NewSQLiteVectorStore(db, embedder, logger)
}
