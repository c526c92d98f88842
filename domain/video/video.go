// Package video provides domain types for indexed YouTube videos.
package video

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidVideoID indicates the input is neither a video ID nor a
// recognized YouTube URL.
var ErrInvalidVideoID = errors.New("invalid video id or url")

var (
	watchURLPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([^&\n?#/]+)`)
	bareIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ParseVideoID extracts the 11-character video ID from a YouTube URL or
// returns the input unchanged when it already is a bare ID.
func ParseVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if m := watchURLPattern.FindStringSubmatch(input); m != nil {
		id := m[1]
		if !bareIDPattern.MatchString(id) {
			return "", fmt.Errorf("%w: %q", ErrInvalidVideoID, input)
		}
		return id, nil
	}
	if bareIDPattern.MatchString(input) {
		return input, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVideoID, input)
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Video is an indexed YouTube video. Immutable value object.
type Video struct {
	id         string
	title      string
	uploader   string
	uploadDate string
	duration   time.Duration
	language   string
	chunkCount int
	indexedAt  time.Time
}

// NewVideo creates a Video for a freshly fetched transcript (not yet persisted).
func NewVideo(id, title, uploader, uploadDate string, duration time.Duration, language string) Video {
	return Video{
		id:         id,
		title:      title,
		uploader:   uploader,
		uploadDate: uploadDate,
		duration:   duration,
		language:   language,
		indexedAt:  time.Now().UTC(),
	}
}

// ReconstructVideo recreates a Video from persistence.
func ReconstructVideo(id, title, uploader, uploadDate string, duration time.Duration, language string, chunkCount int, indexedAt time.Time) Video {
	return Video{
		id:         id,
		title:      title,
		uploader:   uploader,
		uploadDate: uploadDate,
		duration:   duration,
		language:   language,
		chunkCount: chunkCount,
		indexedAt:  indexedAt,
	}
}

// ID returns the 11-character YouTube video ID.
func (v Video) ID() string { return v.id }

// Title returns the video title.
func (v Video) Title() string { return v.title }

// Uploader returns the channel name.
func (v Video) Uploader() string { return v.uploader }

// UploadDate returns the upload date in YYYYMMDD form, if known.
func (v Video) UploadDate() string { return v.uploadDate }

// Duration returns the video length.
func (v Video) Duration() time.Duration { return v.duration }

// Language returns the transcript language code.
func (v Video) Language() string { return v.language }

// ChunkCount returns the number of indexed chunks.
func (v Video) ChunkCount() int { return v.chunkCount }

// IndexedAt returns when the video was indexed.
func (v Video) IndexedAt() time.Time { return v.indexedAt }

// URL returns the canonical watch page URL.
func (v Video) URL() string { return WatchURL(v.id) }

// WithChunkCount returns a copy with the chunk count set.
func (v Video) WithChunkCount(n int) Video {
	v.chunkCount = n
	return v
}
