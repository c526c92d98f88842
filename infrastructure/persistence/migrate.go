package persistence

import (
	"context"
	"fmt"

	"github.com/vidqa/vidqa/internal/database"
)

// Migrate creates or updates the videos, chunks, and transcripts tables.
func Migrate(ctx context.Context, db database.Database) error {
	err := db.Session(ctx).AutoMigrate(
		&VideoEntity{},
		&ChunkEntity{},
		&TranscriptEntity{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
