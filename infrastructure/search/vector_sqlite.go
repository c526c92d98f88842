package search

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/domain/store"
	"github.com/vidqa/vidqa/internal/database"
	"github.com/vidqa/vidqa/internal/log"
)

// Float64Slice is a custom type for JSON serialization of []float64 in
// SQLite.
type Float64Slice []float64

// Scan implements sql.Scanner for reading JSON from SQLite.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON to SQLite.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// SQLiteEmbeddingEntity is a chunk embedding row stored as JSON.
type SQLiteEmbeddingEntity struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement"`
	ChunkID   string       `gorm:"column:chunk_id;uniqueIndex"`
	VideoID   string       `gorm:"column:video_id;index"`
	Embedding Float64Slice `gorm:"column:embedding;type:json"`
}

// TableName implements the GORM table name convention.
func (SQLiteEmbeddingEntity) TableName() string { return "chunk_embeddings" }

// SQLiteVectorStore implements search.VectorStore for SQLite. Embeddings are
// stored as JSON and cosine similarity is computed in process, which is fine
// for libraries of up to tens of thousands of chunks.
type SQLiteVectorStore struct {
	db       database.Database
	embedder search.Embedder
	logger   *log.Logger
}

// NewSQLiteVectorStore creates a SQLiteVectorStore.
func NewSQLiteVectorStore(db database.Database, embedder search.Embedder, logger *log.Logger) *SQLiteVectorStore {
	if logger == nil {
		logger = log.Default()
	}
	return &SQLiteVectorStore{db: db, embedder: embedder, logger: logger}
}

// Migrate creates the embeddings table.
func (s *SQLiteVectorStore) Migrate(ctx context.Context) error {
	return s.db.Session(ctx).AutoMigrate(&SQLiteEmbeddingEntity{})
}

// Index embeds and stores documents, replacing rows for existing chunk IDs.
func (s *SQLiteVectorStore) Index(ctx context.Context, request search.IndexRequest) error {
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

	entities := make([]SQLiteEmbeddingEntity, len(docs))
	for i, d := range docs {
		entities[i] = SQLiteEmbeddingEntity{
			ChunkID:   d.ID(),
			VideoID:   videoIDOf(d.ID()),
			Embedding: Float64Slice(vectors[i]),
		}
	}

	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chunk_id"}},
			UpdateAll: true,
		}).Create(&entities).Error
	})
}

// Search embeds the query (unless a vector is supplied via WithEmbedding)
// and returns the top matches by cosine similarity.
func (s *SQLiteVectorStore) Search(ctx context.Context, options ...store.Option) ([]search.Result, error) {
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

	vectors, err := s.loadVectors(ctx, options...)
	if err != nil {
		return nil, err
	}

	matches := TopKSimilar(queryVector, vectors, limit, minScore)
	results := make([]search.Result, len(matches))
	for i, m := range matches {
		results[i] = search.NewResult(m.ChunkID(), m.Similarity())
	}
	return results, nil
}

func (s *SQLiteVectorStore) resolveQueryVector(ctx context.Context, q store.Query) ([]float64, error) {
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

// loadVectors loads embedding rows, applying condition filters (video_id,
// chunk_id IN).
func (s *SQLiteVectorStore) loadVectors(ctx context.Context, options ...store.Option) ([]StoredVector, error) {
	var entities []SQLiteEmbeddingEntity
	db := database.ApplyConditions(s.db.Session(ctx), options...)
	if err := db.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}

	vectors := make([]StoredVector, 0, len(entities))
	for _, e := range entities {
		if len(e.Embedding) == 0 {
			s.logger.WarnContext(ctx, "skipping empty embedding", "chunk_id", e.ChunkID)
			continue
		}
		vectors = append(vectors, NewStoredVector(e.ChunkID, e.Embedding))
	}
	return vectors, nil
}

// HasEmbeddings reports which chunk IDs already have a stored embedding.
func (s *SQLiteVectorStore) HasEmbeddings(ctx context.Context, chunkIDs []string) (map[string]bool, error) {
	if len(chunkIDs) == 0 {
		return map[string]bool{}, nil
	}
	var found []string
	err := s.db.Session(ctx).
		Model(&SQLiteEmbeddingEntity{}).
		Where("chunk_id IN ?", chunkIDs).
		Pluck("chunk_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("check embeddings: %w", err)
	}
	result := make(map[string]bool, len(found))
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

// DeleteBy removes embeddings matching the given options. With no conditions
// it removes every row.
func (s *SQLiteVectorStore) DeleteBy(ctx context.Context, options ...store.Option) error {
	db := s.db.Session(ctx)
	if len(options) == 0 {
		db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	db = database.ApplyConditions(db, options...)
	if err := db.Delete(&SQLiteEmbeddingEntity{}).Error; err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}
	return nil
}

var _ search.VectorStore = (*SQLiteVectorStore)(nil)
