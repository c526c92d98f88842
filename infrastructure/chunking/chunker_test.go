package chunking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidqa/vidqa/domain/video"
)

func TestSplitShortTextIsSinglePiece(t *testing.T) {
	pieces, err := Split("hello world", DefaultParams())
	require.NoError(t, err)
	require.Len(t, pieces, 1)
	assert.Equal(t, "hello world", pieces[0].Text())
}

func TestSplitEmptyText(t *testing.T) {
	pieces, err := Split("", DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, pieces)

	pieces, err = Split("   \n\t ", DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, pieces)
}

func TestSplitRejectsBadParams(t *testing.T) {
	_, err := Split("text", Params{Size: 0, Overlap: 0})
	assert.Error(t, err)

	_, err = Split("text", Params{Size: 100, Overlap: 100})
	assert.Error(t, err)
}

func TestSplitOverlapCarriesText(t *testing.T) {
	text := strings.Repeat("abcde ", 100) // 600 runes, no sentence endings
	pieces, err := Split(text, Params{Size: 250, Overlap: 50})
	require.NoError(t, err)
	require.Greater(t, len(pieces), 1)

	// Consecutive pieces overlap by roughly the configured amount.
	for i := 1; i < len(pieces); i++ {
		assert.Less(t, pieces[i].Start(), pieces[i-1].End())
	}
	// Every piece respects the size bound.
	for _, p := range pieces {
		assert.LessOrEqual(t, len([]rune(p.Text())), 250)
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	first := strings.Repeat("x", 180) + ". "
	text := first + strings.Repeat("y", 300)
	pieces, err := Split(text, Params{Size: 200, Overlap: 20})
	require.NoError(t, err)
	require.Greater(t, len(pieces), 1)

	// The boundary is inside the 100-rune window, so the first piece ends
	// at the sentence, not at the hard size limit.
	assert.Equal(t, strings.Repeat("x", 180)+".", pieces[0].Text())
}

func TestSplitBoundaryVariants(t *testing.T) {
	for _, sep := range []string{". ", "! ", "? ", "\n\n"} {
		text := strings.Repeat("a", 150) + sep + strings.Repeat("b", 200)
		pieces, err := Split(text, Params{Size: 200, Overlap: 10})
		require.NoError(t, err)
		require.Greater(t, len(pieces), 1, "separator %q", sep)
		assert.NotContains(t, pieces[0].Text(), "b", "separator %q", sep)
	}
}

func TestSplitCoversAllText(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)
	pieces, err := Split(text, DefaultParams())
	require.NoError(t, err)
	require.NotEmpty(t, pieces)

	assert.Zero(t, pieces[0].Start())
	last := pieces[len(pieces)-1]
	assert.Equal(t, len([]rune(strings.TrimRight(text, " "))), last.End())
}

func makeTranscript(lines int) video.Transcript {
	segments := make([]video.Segment, 0, lines)
	for i := 0; i < lines; i++ {
		segments = append(segments, video.NewSegment(
			"segment number "+strings.Repeat("word ", 10),
			time.Duration(i*4)*time.Second,
			4*time.Second,
		))
	}
	return video.NewTranscript("dQw4w9WgXcQ", "en", false, segments)
}

func TestChunkTranscriptAssignsTimeRanges(t *testing.T) {
	tr := makeTranscript(40)
	chunks, err := ChunkTranscript(tr, Params{Size: 400, Overlap: 80})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, "dQw4w9WgXcQ", c.VideoID())
		assert.Equal(t, i, c.Index())
		assert.LessOrEqual(t, c.StartTime(), c.EndTime())
	}

	// The first chunk starts at the beginning of the video and chunk start
	// times are monotonically non-decreasing.
	assert.Zero(t, chunks[0].StartTime())
	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i].StartTime(), chunks[i-1].StartTime())
	}
	// The last chunk reaches the end of the caption timeline.
	assert.Equal(t, tr.End(), chunks[len(chunks)-1].EndTime())
}

func TestChunkTranscriptEmpty(t *testing.T) {
	tr := video.NewTranscript("dQw4w9WgXcQ", "en", false, nil)
	chunks, err := ChunkTranscript(tr, DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
