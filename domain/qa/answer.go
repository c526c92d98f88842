// Package qa provides domain types for question answering over indexed
// transcripts.
package qa

import "time"

// Source is a transcript excerpt that grounds an answer.
type Source struct {
	chunkID  string
	videoID  string
	title    string
	uploader string
	start    time.Duration
	score    float64
	text     string
}

// NewSource creates a Source.
func NewSource(chunkID, videoID, title, uploader string, start time.Duration, score float64, text string) Source {
	return Source{
		chunkID:  chunkID,
		videoID:  videoID,
		title:    title,
		uploader: uploader,
		start:    start,
		score:    score,
		text:     text,
	}
}

// ChunkID returns the chunk ID the excerpt came from.
func (s Source) ChunkID() string { return s.chunkID }

// VideoID returns the owning video ID.
func (s Source) VideoID() string { return s.videoID }

// Title returns the video title.
func (s Source) Title() string { return s.title }

// Uploader returns the channel name.
func (s Source) Uploader() string { return s.uploader }

// Start returns the timeline offset of the excerpt.
func (s Source) Start() time.Duration { return s.start }

// Score returns the retrieval similarity score.
func (s Source) Score() float64 { return s.score }

// Text returns the excerpt text.
func (s Source) Text() string { return s.text }

// Answer is the result of a question against the library.
type Answer struct {
	question string
	text     string
	sources  []Source
	fallback bool
}

// NewAnswer creates an Answer.
func NewAnswer(question, text string, sources []Source, fallback bool) Answer {
	cp := make([]Source, len(sources))
	copy(cp, sources)
	return Answer{
		question: question,
		text:     text,
		sources:  cp,
		fallback: fallback,
	}
}

// Question returns the question that was asked.
func (a Answer) Question() string { return a.question }

// Text returns the answer text.
func (a Answer) Text() string { return a.text }

// Sources returns a copy of the grounding excerpts.
func (a Answer) Sources() []Source {
	cp := make([]Source, len(a.sources))
	copy(cp, a.sources)
	return cp
}

// Fallback reports whether the answer was assembled extractively because no
// language model was available.
func (a Answer) Fallback() bool { return a.fallback }
