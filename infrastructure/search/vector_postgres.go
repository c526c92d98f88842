package search

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/domain/store"
	"github.com/vidqa/vidqa/internal/database"
	"github.com/vidqa/vidqa/internal/log"
)

// PgVectorStore implements search.VectorStore on PostgreSQL with the
// pgvector extension. Similarity search runs in the database using the
// cosine distance operator.
type PgVectorStore struct {
	db       database.Database
	embedder search.Embedder
	logger   *log.Logger
}

// NewPgVectorStore creates a PgVectorStore.
func NewPgVectorStore(db database.Database, embedder search.Embedder, logger *log.Logger) *PgVectorStore {
	if logger == nil {
		logger = log.Default()
	}
	return &PgVectorStore{db: db, embedder: embedder, logger: logger}
}

// Migrate enables the pgvector extension and creates the embeddings table.
// The vector column is dimensionless so the store works with any embedding
// model; pgvector enforces a uniform dimension per column value at insert.
func (s *PgVectorStore) Migrate(ctx context.Context) error {
	session := s.db.Session(ctx)
	if err := session.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector extension: %w", err)
	}
	createSQL := `
CREATE TABLE IF NOT EXISTS chunk_embeddings (
    id BIGSERIAL PRIMARY KEY,
    chunk_id VARCHAR(255) NOT NULL UNIQUE,
    video_id VARCHAR(32) NOT NULL,
    embedding VECTOR NOT NULL
)`
	if err := session.Exec(createSQL).Error; err != nil {
		return fmt.Errorf("create embeddings table: %w", err)
	}
	indexSQL := "CREATE INDEX IF NOT EXISTS idx_chunk_embeddings_video_id ON chunk_embeddings (video_id)"
	if err := session.Exec(indexSQL).Error; err != nil {
		return fmt.Errorf("create video index: %w", err)
	}
	return nil
}

// Index embeds and stores documents, replacing rows for existing chunk IDs.
func (s *PgVectorStore) Index(ctx context.Context, request search.IndexRequest) error {
	docs := request.Documents()
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text()
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		upsertSQL := `
INSERT INTO chunk_embeddings (chunk_id, video_id, embedding)
VALUES (?, ?, ?)
ON CONFLICT (chunk_id) DO UPDATE SET embedding = EXCLUDED.embedding`
		for i, d := range docs {
			vec := database.NewPgVector(vectors[i])
			if err := tx.Exec(upsertSQL, d.ID(), videoIDOf(d.ID()), vec).Error; err != nil {
				return fmt.Errorf("upsert embedding %s: %w", d.ID(), err)
			}
		}
		return nil
	})
}

// Search embeds the query (unless a vector is supplied via WithEmbedding)
// and runs a cosine distance query in the database.
func (s *PgVectorStore) Search(ctx context.Context, options ...store.Option) ([]search.Result, error) {
	q := store.Build(options...)

	queryVector, err := s.resolveQueryVector(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(queryVector) == 0 {
		return []search.Result{}, nil
	}

	limit := q.LimitValue()
	if limit <= 0 {
		limit = 10
	}
	minScore, _ := search.MinScoreFrom(q)

	querySQL := "SELECT chunk_id, 1 - (embedding <=> ?) AS score FROM chunk_embeddings"
	args := []any{database.NewPgVector(queryVector)}

	where, whereArgs := conditionsSQL(q)
	if where != "" {
		querySQL += " WHERE " + where
		args = append(args, whereArgs...)
	}
	querySQL += " ORDER BY embedding <=> ? LIMIT ?"
	args = append(args, database.NewPgVector(queryVector), limit)

	rows := []struct {
		ChunkID string
		Score   float64
	}{}
	if err := s.db.Session(ctx).Raw(querySQL, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]search.Result, 0, len(rows))
	for _, r := range rows {
		if r.Score < minScore {
			continue
		}
		results = append(results, search.NewResult(r.ChunkID, r.Score))
	}
	return results, nil
}

// conditionsSQL renders equality and IN conditions as a WHERE fragment.
func conditionsSQL(q store.Query) (string, []any) {
	var parts []string
	var args []any
	for _, cond := range q.Conditions() {
		if cond.In() {
			parts = append(parts, cond.Field()+" IN ?")
		} else {
			parts = append(parts, cond.Field()+" = ?")
		}
		args = append(args, cond.Value())
	}
	if len(parts) == 0 {
		return "", nil
	}
	joined := parts[0]
	for _, p := range parts[1:] {
		joined += " AND " + p
	}
	return joined, args
}

func (s *PgVectorStore) resolveQueryVector(ctx context.Context, q store.Query) ([]float64, error) {
	if embedding, ok := search.EmbeddingFrom(q); ok {
		return embedding, nil
	}
	text, ok := search.QueryFrom(q)
	if !ok || text == "" {
		return nil, nil
	}
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for query", len(vectors))
	}
	return vectors[0], nil
}

// HasEmbeddings reports which chunk IDs already have a stored embedding.
func (s *PgVectorStore) HasEmbeddings(ctx context.Context, chunkIDs []string) (map[string]bool, error) {
	if len(chunkIDs) == 0 {
		return map[string]bool{}, nil
	}
	var found []string
	err := s.db.Session(ctx).
		Raw("SELECT chunk_id FROM chunk_embeddings WHERE chunk_id IN ?", chunkIDs).
		Scan(&found).Error
	if err != nil {
		return nil, fmt.Errorf("check embeddings: %w", err)
	}
	result := make(map[string]bool, len(found))
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

// DeleteBy removes embeddings matching the given options.
func (s *PgVectorStore) DeleteBy(ctx context.Context, options ...store.Option) error {
	q := store.Build(options...)
	deleteSQL := "DELETE FROM chunk_embeddings"
	where, args := conditionsSQL(q)
	if where != "" {
		deleteSQL += " WHERE " + where
	}
	if err := s.db.Session(ctx).Exec(deleteSQL, args...).Error; err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}
	return nil
}

var _ search.VectorStore = (*PgVectorStore)(nil)
