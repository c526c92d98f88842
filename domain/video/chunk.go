package video

import (
	"fmt"
	"time"
)

// ChunkID builds the deterministic identifier of the i-th chunk of a video.
func ChunkID(videoID string, index int) string {
	return fmt.Sprintf("%s:%d", videoID, index)
}

// Chunk is an addressable slice of a video transcript, aligned to the
// caption timeline. Immutable value object.
type Chunk struct {
	videoID   string
	index     int
	text      string
	startTime time.Duration
	endTime   time.Duration
}

// NewChunk creates a Chunk.
func NewChunk(videoID string, index int, text string, startTime, endTime time.Duration) Chunk {
	return Chunk{
		videoID:   videoID,
		index:     index,
		text:      text,
		startTime: startTime,
		endTime:   endTime,
	}
}

// ID returns the deterministic chunk identifier "{video_id}:{index}".
func (c Chunk) ID() string { return ChunkID(c.videoID, c.index) }

// VideoID returns the owning video ID.
func (c Chunk) VideoID() string { return c.videoID }

// Index returns the zero-based position of the chunk within its video.
func (c Chunk) Index() int { return c.index }

// Text returns the chunk text.
func (c Chunk) Text() string { return c.text }

// StartTime returns the timeline offset where the chunk begins.
func (c Chunk) StartTime() time.Duration { return c.startTime }

// EndTime returns the timeline offset where the chunk ends.
func (c Chunk) EndTime() time.Duration { return c.endTime }

// Timestamp formats the chunk start as m:ss (or h:mm:ss past the hour).
func (c Chunk) Timestamp() string {
	return FormatTimestamp(c.startTime)
}

// FormatTimestamp renders an offset as m:ss, or h:mm:ss for offsets of an
// hour or more.
func FormatTimestamp(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
