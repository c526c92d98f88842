package video

import "github.com/vidqa/vidqa/domain/store"

// WithID filters by the primary key column. For videos this is the YouTube
// video ID; for chunks it is the chunk ID "{video_id}:{index}".
func WithID(id string) store.Option {
	return store.WithCondition("id", id)
}

// WithIDIn filters by multiple primary key values.
func WithIDIn(ids []string) store.Option {
	return store.WithConditionIn("id", ids)
}
