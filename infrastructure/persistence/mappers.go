package persistence

import (
	"time"

	"github.com/vidqa/vidqa/domain/video"
)

// VideoMapper maps between domain Video and VideoEntity.
type VideoMapper struct{}

// ToDomain converts a VideoEntity to a domain Video.
func (VideoMapper) ToDomain(e VideoEntity) video.Video {
	return video.ReconstructVideo(
		e.ID,
		e.Title,
		e.Uploader,
		e.UploadDate,
		e.Duration,
		e.Language,
		e.ChunkCount,
		e.IndexedAt,
	)
}

// ToModel converts a domain Video to a VideoEntity.
func (VideoMapper) ToModel(v video.Video) VideoEntity {
	return VideoEntity{
		ID:         v.ID(),
		Title:      v.Title(),
		Uploader:   v.Uploader(),
		UploadDate: v.UploadDate(),
		Duration:   v.Duration(),
		Language:   v.Language(),
		ChunkCount: v.ChunkCount(),
		IndexedAt:  v.IndexedAt(),
	}
}

// ChunkMapper maps between domain Chunk and ChunkEntity.
type ChunkMapper struct{}

// ToDomain converts a ChunkEntity to a domain Chunk.
func (ChunkMapper) ToDomain(e ChunkEntity) video.Chunk {
	return video.NewChunk(e.VideoID, e.ChunkIdx, e.Text, e.StartTime, e.EndTime)
}

// ToModel converts a domain Chunk to a ChunkEntity.
func (ChunkMapper) ToModel(c video.Chunk) ChunkEntity {
	return ChunkEntity{
		ID:        c.ID(),
		VideoID:   c.VideoID(),
		ChunkIdx:  c.Index(),
		Text:      c.Text(),
		StartTime: c.StartTime(),
		EndTime:   c.EndTime(),
	}
}

// TranscriptMapper maps between domain Transcript and TranscriptEntity.
type TranscriptMapper struct{}

// ToDomain converts a TranscriptEntity to a domain Transcript.
func (TranscriptMapper) ToDomain(e TranscriptEntity) video.Transcript {
	segments := make([]video.Segment, len(e.Segments))
	for i, r := range e.Segments {
		segments[i] = video.NewSegment(
			r.Text,
			secondsToDuration(r.Start),
			secondsToDuration(r.Duration),
		)
	}
	return video.NewTranscript(e.VideoID, e.Language, e.Generated, segments)
}

// ToModel converts a domain Transcript to a TranscriptEntity.
func (TranscriptMapper) ToModel(t video.Transcript) TranscriptEntity {
	segments := t.Segments()
	records := make(SegmentList, len(segments))
	for i, s := range segments {
		records[i] = SegmentRecord{
			Text:     s.Text(),
			Start:    s.Start().Seconds(),
			Duration: s.Duration().Seconds(),
		}
	}
	return TranscriptEntity{
		VideoID:   t.VideoID(),
		Language:  t.Language(),
		Generated: t.Generated(),
		Segments:  records,
		FetchedAt: time.Now().UTC(),
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
