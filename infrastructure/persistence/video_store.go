package persistence

import (
	"context"

	"github.com/vidqa/vidqa/domain/store"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/internal/database"
)

// VideoStore implements video.Store using GORM.
type VideoStore struct {
	repo database.Repository[video.Video, VideoEntity]
}

// NewVideoStore creates a VideoStore.
func NewVideoStore(db database.Database) VideoStore {
	return VideoStore{
		repo: database.NewRepository[video.Video, VideoEntity](db, VideoMapper{}, "video"),
	}
}

// Save inserts or replaces a video record.
func (s VideoStore) Save(ctx context.Context, v video.Video) error {
	return s.repo.Upsert(ctx, v)
}

// Find retrieves videos matching the given options.
func (s VideoStore) Find(ctx context.Context, options ...store.Option) ([]video.Video, error) {
	return s.repo.Find(ctx, options...)
}

// FindOne retrieves a single video matching the given options.
func (s VideoStore) FindOne(ctx context.Context, options ...store.Option) (video.Video, error) {
	return s.repo.FindOne(ctx, options...)
}

// Exists checks whether any video matches the given options.
func (s VideoStore) Exists(ctx context.Context, options ...store.Option) (bool, error) {
	return s.repo.Exists(ctx, options...)
}

// Count returns the number of matching videos.
func (s VideoStore) Count(ctx context.Context, options ...store.Option) (int64, error) {
	return s.repo.Count(ctx, options...)
}

// DeleteBy removes videos matching the given options.
func (s VideoStore) DeleteBy(ctx context.Context, options ...store.Option) error {
	return s.repo.DeleteBy(ctx, options...)
}

var _ video.Store = VideoStore{}
