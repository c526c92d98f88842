package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vidqa/vidqa/domain/store"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/internal/database"
)

// ChunkStore implements video.ChunkStore using GORM.
type ChunkStore struct {
	db     database.Database
	repo   database.Repository[video.Chunk, ChunkEntity]
	mapper ChunkMapper
}

// NewChunkStore creates a ChunkStore.
func NewChunkStore(db database.Database) ChunkStore {
	return ChunkStore{
		db:     db,
		repo:   database.NewRepository[video.Chunk, ChunkEntity](db, ChunkMapper{}, "chunk"),
		mapper: ChunkMapper{},
	}
}

// ReplaceAll atomically replaces the chunks of a video.
func (s ChunkStore) ReplaceAll(ctx context.Context, videoID string, chunks []video.Chunk) error {
	entities := make([]ChunkEntity, len(chunks))
	for i, c := range chunks {
		entities[i] = s.mapper.ToModel(c)
	}

	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", videoID).Delete(&ChunkEntity{}).Error; err != nil {
			return fmt.Errorf("delete existing chunks: %w", err)
		}
		if len(entities) == 0 {
			return nil
		}
		if err := tx.Create(&entities).Error; err != nil {
			return fmt.Errorf("insert chunks: %w", err)
		}
		return nil
	})
}

// Find retrieves chunks matching the given options.
func (s ChunkStore) Find(ctx context.Context, options ...store.Option) ([]video.Chunk, error) {
	return s.repo.Find(ctx, options...)
}

// FindByIDs retrieves chunks by chunk ID, preserving the input order. IDs
// with no stored chunk are skipped.
func (s ChunkStore) FindByIDs(ctx context.Context, ids []string) ([]video.Chunk, error) {
	if len(ids) == 0 {
		return []video.Chunk{}, nil
	}

	found, err := s.repo.Find(ctx, video.WithIDIn(ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]video.Chunk, len(found))
	for _, c := range found {
		byID[c.ID()] = c
	}

	ordered := make([]video.Chunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// Count returns the number of matching chunks.
func (s ChunkStore) Count(ctx context.Context, options ...store.Option) (int64, error) {
	return s.repo.Count(ctx, options...)
}

// DeleteBy removes chunks matching the given options.
func (s ChunkStore) DeleteBy(ctx context.Context, options ...store.Option) error {
	return s.repo.DeleteBy(ctx, options...)
}

var _ video.ChunkStore = ChunkStore{}
