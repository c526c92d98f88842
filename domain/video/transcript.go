package video

import (
	"strings"
	"time"
)

// Segment is a single timed caption line.
type Segment struct {
	text     string
	start    time.Duration
	duration time.Duration
}

// NewSegment creates a Segment.
func NewSegment(text string, start, duration time.Duration) Segment {
	return Segment{text: text, start: start, duration: duration}
}

// Text returns the caption text.
func (s Segment) Text() string { return s.text }

// Start returns the offset into the video where the segment begins.
func (s Segment) Start() time.Duration { return s.start }

// Duration returns how long the segment is on screen.
func (s Segment) Duration() time.Duration { return s.duration }

// End returns the offset where the segment ends.
func (s Segment) End() time.Duration { return s.start + s.duration }

// Transcript is the full caption track of a video.
type Transcript struct {
	videoID   string
	language  string
	generated bool
	segments  []Segment
}

// NewTranscript creates a Transcript.
func NewTranscript(videoID, language string, generated bool, segments []Segment) Transcript {
	cp := make([]Segment, len(segments))
	copy(cp, segments)
	return Transcript{
		videoID:   videoID,
		language:  language,
		generated: generated,
		segments:  cp,
	}
}

// VideoID returns the owning video ID.
func (t Transcript) VideoID() string { return t.videoID }

// Language returns the track language code.
func (t Transcript) Language() string { return t.language }

// Generated reports whether the track is auto-generated.
func (t Transcript) Generated() bool { return t.generated }

// Segments returns a copy of the timed segments.
func (t Transcript) Segments() []Segment {
	cp := make([]Segment, len(t.segments))
	copy(cp, t.segments)
	return cp
}

// IsEmpty reports whether the transcript has no usable text.
func (t Transcript) IsEmpty() bool {
	for _, s := range t.segments {
		if strings.TrimSpace(s.text) != "" {
			return false
		}
	}
	return true
}

// FullText joins all segment texts into a single string.
func (t Transcript) FullText() string {
	parts := make([]string, 0, len(t.segments))
	for _, s := range t.segments {
		if txt := strings.TrimSpace(s.text); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}

// End returns the end offset of the last segment.
func (t Transcript) End() time.Duration {
	if len(t.segments) == 0 {
		return 0
	}
	return t.segments[len(t.segments)-1].End()
}
