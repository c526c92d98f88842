package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidqa/vidqa/domain/video"
)

type libraryFixture struct {
	service LibraryService
	fetcher *fakeFetcher
	videos  *fakeVideoStore
	chunks  *fakeChunkStore
	cache   *fakeTranscriptCache
	vectors *fakeVectorStore
}

func newLibraryFixture(t *testing.T) *libraryFixture {
	t.Helper()
	f := &libraryFixture{
		fetcher: newFakeFetcher(),
		videos:  newFakeVideoStore(),
		chunks:  newFakeChunkStore(),
		cache:   newFakeTranscriptCache(),
		vectors: newFakeVectorStore(),
	}
	f.service = NewLibraryService(f.fetcher, f.videos, f.chunks, f.cache, f.vectors, testConfig(), nil)
	return f
}

func (f *libraryFixture) seedVideo(id, title string) {
	v := video.NewVideo(id, title, "Uploader", "20240101", 10*time.Minute, "en")
	f.fetcher.add(v, testTranscript(id, strings.Repeat("Useful sentence here. ", 20)))
}

func TestAddVideoIndexesChunksAndEmbeddings(t *testing.T) {
	f := newLibraryFixture(t)
	f.seedVideo("dQw4w9WgXcQ", "Test Video")

	v, err := f.service.AddVideo(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", v.ID())
	assert.Greater(t, v.ChunkCount(), 0)

	stored, err := f.videos.FindOne(context.Background(), video.WithID("dQw4w9WgXcQ"))
	require.NoError(t, err)
	assert.Equal(t, v.ChunkCount(), stored.ChunkCount())

	chunks, err := f.chunks.Find(context.Background())
	require.NoError(t, err)
	assert.Len(t, chunks, v.ChunkCount())
	assert.Len(t, f.vectors.indexed, v.ChunkCount())

	_, cached, err := f.cache.Get(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestAddVideoRejectsInvalidInput(t *testing.T) {
	f := newLibraryFixture(t)

	_, err := f.service.AddVideo(context.Background(), "not a video url")
	assert.ErrorIs(t, err, video.ErrInvalidVideoID)
}

func TestAddVideoUsesTranscriptCache(t *testing.T) {
	f := newLibraryFixture(t)
	f.seedVideo("dQw4w9WgXcQ", "Test Video")

	_, err := f.service.AddVideo(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, 1, f.fetcher.calls)

	_, err = f.service.AddVideo(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, 1, f.fetcher.calls, "second add should hit the cache")
}

func TestAddVideoForceRefreshBypassesCache(t *testing.T) {
	f := newLibraryFixture(t)
	f.seedVideo("dQw4w9WgXcQ", "Test Video")

	_, err := f.service.AddVideo(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	_, err = f.service.AddVideo(context.Background(), "dQw4w9WgXcQ", WithForceRefresh(true))
	require.NoError(t, err)
	assert.Equal(t, 2, f.fetcher.calls)
}

func TestAddVideoEmptyTranscript(t *testing.T) {
	f := newLibraryFixture(t)
	v := video.NewVideo("dQw4w9WgXcQ", "Silent", "Uploader", "20240101", time.Minute, "en")
	f.fetcher.add(v, video.NewTranscript("dQw4w9WgXcQ", "en", false, nil))

	_, err := f.service.AddVideo(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	count, err := f.videos.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, count, "failed video must not be stored")
}

func TestAddVideosReportsPerInputErrors(t *testing.T) {
	f := newLibraryFixture(t)
	f.seedVideo("aaaaaaaaaaa", "First")
	f.seedVideo("bbbbbbbbbbb", "Second")

	results := f.service.AddVideos(context.Background(),
		[]string{"aaaaaaaaaaa", "definitely not valid", "bbbbbbbbbbb"})
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err())
	assert.Equal(t, "aaaaaaaaaaa", results[0].Video().ID())
	assert.ErrorIs(t, results[1].Err(), video.ErrInvalidVideoID)
	assert.NoError(t, results[2].Err())
	assert.Equal(t, "bbbbbbbbbbb", results[2].Video().ID())
}

func TestRemoveVideo(t *testing.T) {
	f := newLibraryFixture(t)
	f.seedVideo("dQw4w9WgXcQ", "Test Video")

	_, err := f.service.AddVideo(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveVideo(context.Background(), "dQw4w9WgXcQ"))

	count, err := f.chunks.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, f.vectors.indexed)

	_, cached, err := f.cache.Get(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestRemoveVideoNotFound(t *testing.T) {
	f := newLibraryFixture(t)

	err := f.service.RemoveVideo(context.Background(), "missing00000")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestStats(t *testing.T) {
	f := newLibraryFixture(t)
	f.seedVideo("dQw4w9WgXcQ", "Test Video")

	v, err := f.service.AddVideo(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.VideoCount())
	assert.EqualValues(t, v.ChunkCount(), stats.ChunkCount())
	assert.NotEmpty(t, stats.EmbeddingModel())
	assert.NotEmpty(t, stats.AnswerModel())
}

func TestClear(t *testing.T) {
	f := newLibraryFixture(t)
	f.seedVideo("aaaaaaaaaaa", "First")
	f.seedVideo("bbbbbbbbbbb", "Second")

	_, err := f.service.AddVideo(context.Background(), "aaaaaaaaaaa")
	require.NoError(t, err)
	_, err = f.service.AddVideo(context.Background(), "bbbbbbbbbbb")
	require.NoError(t, err)

	require.NoError(t, f.service.Clear(context.Background()))

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.VideoCount())
	assert.EqualValues(t, 0, stats.ChunkCount())
	assert.Empty(t, f.vectors.indexed)
}
