package vidqa_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidqa/vidqa"
	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/infrastructure/provider"
)

const testVideoID = "dQw4w9WgXcQ"

// memoryFetcher serves canned transcripts keyed by video ID.
type memoryFetcher struct {
	transcripts map[string][]video.Segment
	calls       int
}

func (m *memoryFetcher) FetchVideo(_ context.Context, videoID string, _ []string) (video.Video, video.Transcript, error) {
	m.calls++
	segments := m.transcripts[videoID]
	meta := video.NewVideo(videoID, "Concurrency Patterns", "Tech Talks", "20240601", 45*time.Minute, "en")
	return meta, video.NewTranscript(videoID, "en", false, segments), nil
}

// keywordEmbedder produces deterministic vectors from keyword hits so
// retrieval behaves predictably without a real model.
type keywordEmbedder struct{}

func (keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	keywords := []string{"channel", "mutex", "goroutine"}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		v := make([]float64, len(keywords)+1)
		v[len(keywords)] = 0.1
		for j, kw := range keywords {
			if strings.Contains(lower, kw) {
				v[j] = 1
			}
		}
		out[i] = v
	}
	return out, nil
}

// cannedGenerator returns a fixed completion and records the prompt.
type cannedGenerator struct {
	response   string
	lastPrompt string
}

func (g *cannedGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	messages := req.Messages()
	if len(messages) > 0 {
		g.lastPrompt = messages[len(messages)-1].Content()
	}
	return provider.NewChatCompletionResponse(g.response, "stop", provider.Usage{}), nil
}

func (g *cannedGenerator) Close() error { return nil }

func testSegments() []video.Segment {
	return []video.Segment{
		video.NewSegment("Channels are how goroutines communicate.", 0, 10*time.Second),
		video.NewSegment("A mutex protects shared state from concurrent writes.", 10*time.Second, 10*time.Second),
		video.NewSegment("Prefer channels when transferring ownership of data.", 20*time.Second, 10*time.Second),
	}
}

func newTestClient(t *testing.T, generator provider.TextGenerator, fetcher *memoryFetcher) *vidqa.Client {
	t.Helper()
	tmpDir := t.TempDir()

	opts := []vidqa.Option{
		vidqa.WithSQLite(filepath.Join(tmpDir, "test.db")),
		vidqa.WithDataDir(tmpDir),
		vidqa.WithEmbedder(keywordEmbedder{}),
		vidqa.WithTranscriptFetcher(fetcher),
	}
	if generator != nil {
		opts = append(opts, vidqa.WithTextGenerator(generator))
	}

	client, err := vidqa.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newTestFetcher() *memoryFetcher {
	return &memoryFetcher{transcripts: map[string][]video.Segment{
		testVideoID: testSegments(),
	}}
}

func TestAddAskRemove(t *testing.T) {
	gen := &cannedGenerator{response: "Goroutines communicate over channels."}
	client := newTestClient(t, gen, newTestFetcher())
	ctx := context.Background()

	v, err := client.Library.AddVideo(ctx, "https://www.youtube.com/watch?v="+testVideoID)
	require.NoError(t, err)
	assert.Equal(t, testVideoID, v.ID())
	assert.Positive(t, v.ChunkCount())

	answer, err := client.QA.Ask(ctx, "how do goroutines communicate?")
	require.NoError(t, err)
	assert.Equal(t, "Goroutines communicate over channels.", answer.Text())
	assert.False(t, answer.Fallback())
	require.NotEmpty(t, answer.Sources())
	assert.Equal(t, testVideoID, answer.Sources()[0].VideoID())
	assert.Contains(t, gen.lastPrompt, "how do goroutines communicate?")
	assert.Contains(t, gen.lastPrompt, "Channels are how goroutines communicate.")

	require.NoError(t, client.Library.RemoveVideo(ctx, testVideoID))
	_, err = client.Library.Video(ctx, testVideoID)
	assert.ErrorIs(t, err, service.ErrVideoNotFound)
}

func TestAskWithoutGeneratorFallsBack(t *testing.T) {
	client := newTestClient(t, nil, newTestFetcher())
	ctx := context.Background()

	_, err := client.Library.AddVideo(ctx, testVideoID)
	require.NoError(t, err)

	answer, err := client.QA.Ask(ctx, "what protects shared state?")
	require.NoError(t, err)
	assert.True(t, answer.Fallback())
	assert.Contains(t, answer.Text(), "Concurrency Patterns")
}

func TestReAddUsesTranscriptCache(t *testing.T) {
	fetcher := newTestFetcher()
	client := newTestClient(t, nil, fetcher)
	ctx := context.Background()

	_, err := client.Library.AddVideo(ctx, testVideoID)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)

	_, err = client.Library.AddVideo(ctx, testVideoID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	_, err = client.Library.AddVideo(ctx, testVideoID, service.WithForceRefresh(true))
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestClear(t *testing.T) {
	client := newTestClient(t, nil, newTestFetcher())
	ctx := context.Background()

	_, err := client.Library.AddVideo(ctx, testVideoID)
	require.NoError(t, err)

	require.NoError(t, client.Library.Clear(ctx))

	stats, err := client.Library.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.VideoCount())
	assert.Zero(t, stats.ChunkCount())

	videos, err := client.Library.ListVideos(ctx)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestNewWithoutEmbedderFails(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := vidqa.New(
		vidqa.WithSQLite(filepath.Join(tmpDir, "test.db")),
		vidqa.WithDataDir(tmpDir),
	)
	assert.ErrorIs(t, err, vidqa.ErrNoEmbedder)
}
