package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidqa/vidqa/domain/qa"
	"github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/domain/video"
)

type qaFixture struct {
	vectors   *fakeVectorStore
	chunks    *fakeChunkStore
	videos    *fakeVideoStore
	generator *fakeGenerator
}

func newQAFixture(t *testing.T) *qaFixture {
	t.Helper()
	f := &qaFixture{
		vectors:   newFakeVectorStore(),
		chunks:    newFakeChunkStore(),
		videos:    newFakeVideoStore(),
		generator: &fakeGenerator{response: "Generated answer."},
	}

	ctx := context.Background()
	v := video.NewVideo("vidA", "Go Talk", "GopherCon", "20240101", time.Hour, "en")
	require.NoError(t, f.videos.Save(ctx, v))
	require.NoError(t, f.chunks.ReplaceAll(ctx, "vidA", []video.Chunk{
		video.NewChunk("vidA", 0, "Goroutines are lightweight threads.", 0, 30*time.Second),
		video.NewChunk("vidA", 1, "Channels synchronize goroutines.", 30*time.Second, time.Minute),
	}))
	f.vectors.results = []search.Result{
		search.NewResult("vidA:1", 0.92),
		search.NewResult("vidA:0", 0.88),
	}
	return f
}

func (f *qaFixture) service() QAService {
	return NewQAService(f.vectors, f.chunks, f.videos, f.generator, testConfig(), nil)
}

func TestSourcesHydratesMetadataAndOrder(t *testing.T) {
	f := newQAFixture(t)

	sources, err := f.service().Sources(context.Background(), "what are channels?")
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "vidA:1", sources[0].ChunkID())
	assert.Equal(t, "Go Talk", sources[0].Title())
	assert.Equal(t, "GopherCon", sources[0].Uploader())
	assert.InDelta(t, 0.92, sources[0].Score(), 1e-9)
	assert.Equal(t, 30*time.Second, sources[0].Start())
	assert.Equal(t, "vidA:0", sources[1].ChunkID())
}

func TestAskUsesGenerator(t *testing.T) {
	f := newQAFixture(t)

	answer, err := f.service().Ask(context.Background(), "what are channels?")
	require.NoError(t, err)
	assert.Equal(t, "Generated answer.", answer.Text())
	assert.False(t, answer.Fallback())
	assert.Len(t, answer.Sources(), 2)

	messages := f.generator.lastReq.Messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Content(), "what are channels?")
	assert.Contains(t, messages[0].Content(), "Channels synchronize goroutines.")
}

func TestAskNoResultsReturnsCannedAnswer(t *testing.T) {
	f := newQAFixture(t)
	f.vectors.results = nil

	answer, err := f.service().Ask(context.Background(), "unrelated question")
	require.NoError(t, err)
	assert.Equal(t, qa.NoContextAnswer, answer.Text())
	assert.Empty(t, answer.Sources())
	assert.False(t, answer.Fallback())
}

func TestAskFallsBackWhenGeneratorFails(t *testing.T) {
	f := newQAFixture(t)
	f.generator.err = errors.New("llm unavailable")

	answer, err := f.service().Ask(context.Background(), "what are channels?")
	require.NoError(t, err)
	assert.True(t, answer.Fallback())
	assert.Contains(t, answer.Text(), "Go Talk")
	assert.Len(t, answer.Sources(), 2)
}

func TestAskWithoutGeneratorIsExtractive(t *testing.T) {
	f := newQAFixture(t)

	svc := NewQAService(f.vectors, f.chunks, f.videos, nil, testConfig(), nil)
	answer, err := svc.Ask(context.Background(), "what are channels?")
	require.NoError(t, err)
	assert.True(t, answer.Fallback())
	assert.NotEmpty(t, answer.Text())
}

func TestAskCarriesPreviousQuestion(t *testing.T) {
	f := newQAFixture(t)

	_, err := f.service().Ask(context.Background(), "and mutexes?",
		WithPreviousQuestion("what are channels?"))
	require.NoError(t, err)

	// Both retrieval and the prompt see the combined question.
	combined := qa.CombineFollowup("what are channels?", "and mutexes?")
	assert.Equal(t, combined, f.vectors.lastQuery)

	messages := f.generator.lastReq.Messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Content(), "what are channels?")
	assert.Contains(t, messages[0].Content(), "Follow-up: and mutexes?")
}

func TestAskPropagatesCancellation(t *testing.T) {
	f := newQAFixture(t)
	f.generator.err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service().Ask(ctx, "what are channels?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAskSearchError(t *testing.T) {
	f := newQAFixture(t)
	f.vectors.err = errors.New("db gone")

	_, err := f.service().Ask(context.Background(), "anything")
	assert.Error(t, err)
}
