package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/internal/database"
)

// TranscriptCache implements video.TranscriptCache on the transcripts table.
// Cached transcripts let a video be re-chunked or re-indexed without another
// round trip to YouTube.
type TranscriptCache struct {
	db     database.Database
	mapper TranscriptMapper
}

// NewTranscriptCache creates a TranscriptCache.
func NewTranscriptCache(db database.Database) TranscriptCache {
	return TranscriptCache{db: db, mapper: TranscriptMapper{}}
}

// Get returns the cached transcript, or ok=false when absent.
func (c TranscriptCache) Get(ctx context.Context, videoID string) (video.Transcript, bool, error) {
	var entity TranscriptEntity
	err := c.db.Session(ctx).Where("video_id = ?", videoID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return video.Transcript{}, false, nil
		}
		return video.Transcript{}, false, err
	}
	return c.mapper.ToDomain(entity), true, nil
}

// Put stores a transcript, replacing any cached copy for the same video.
func (c TranscriptCache) Put(ctx context.Context, t video.Transcript) error {
	entity := c.mapper.ToModel(t)
	return c.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}},
		UpdateAll: true,
	}).Create(&entity).Error
}

// Delete removes a cached transcript.
func (c TranscriptCache) Delete(ctx context.Context, videoID string) error {
	return c.db.Session(ctx).Where("video_id = ?", videoID).Delete(&TranscriptEntity{}).Error
}

var _ video.TranscriptCache = TranscriptCache{}
