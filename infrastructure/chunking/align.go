package chunking

import (
	"strings"
	"time"

	"github.com/vidqa/vidqa/domain/video"
)

// segmentSpan records the rune range a segment occupies in the joined
// transcript text.
type segmentSpan struct {
	start   int
	end     int
	segment video.Segment
}

// joinSegments flattens a transcript into a single string, recording the
// rune range of every segment so chunks can be mapped back to the timeline.
func joinSegments(t video.Transcript) (string, []segmentSpan) {
	var b strings.Builder
	spans := make([]segmentSpan, 0, len(t.Segments()))
	offset := 0
	for _, seg := range t.Segments() {
		text := strings.TrimSpace(seg.Text())
		if text == "" {
			continue
		}
		if offset > 0 {
			b.WriteByte(' ')
			offset++
		}
		n := len([]rune(text))
		spans = append(spans, segmentSpan{start: offset, end: offset + n, segment: seg})
		b.WriteString(text)
		offset += n
	}
	return b.String(), spans
}

// ChunkTranscript splits a transcript into overlapping chunks and assigns
// each chunk the time range of the caption segments it covers.
func ChunkTranscript(t video.Transcript, params Params) ([]video.Chunk, error) {
	text, spans := joinSegments(t)
	pieces, err := Split(text, params)
	if err != nil {
		return nil, err
	}

	chunks := make([]video.Chunk, 0, len(pieces))
	for i, p := range pieces {
		start, end := timeRange(spans, p)
		chunks = append(chunks, video.NewChunk(t.VideoID(), i, p.Text(), start, end))
	}
	return chunks, nil
}

// timeRange returns the earliest start and latest end of the segments
// overlapping the piece's rune range.
func timeRange(spans []segmentSpan, p Piece) (start, end time.Duration) {
	first := true
	for _, span := range spans {
		if span.end <= p.Start() || span.start >= p.End() {
			continue
		}
		seg := span.segment
		if first {
			start, end = seg.Start(), seg.End()
			first = false
			continue
		}
		if seg.Start() < start {
			start = seg.Start()
		}
		if seg.End() > end {
			end = seg.End()
		}
	}
	return start, end
}
