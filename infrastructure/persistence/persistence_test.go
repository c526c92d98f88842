package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidqa/vidqa/domain/store"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/internal/database"
)

func newTestDB(t *testing.T) database.Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDatabase(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func testVideo(id string) video.Video {
	return video.NewVideo(id, "Go Concurrency Patterns", "GopherCon", "20230915", 45*time.Minute, "en")
}

func TestVideoStoreSaveAndFind(t *testing.T) {
	s := NewVideoStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testVideo("dQw4w9WgXcQ")))

	got, err := s.FindOne(ctx, video.WithID("dQw4w9WgXcQ"))
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", got.ID())
	assert.Equal(t, "Go Concurrency Patterns", got.Title())
	assert.Equal(t, "GopherCon", got.Uploader())
	assert.Equal(t, 45*time.Minute, got.Duration())
}

func TestVideoStoreSaveUpdatesExisting(t *testing.T) {
	s := NewVideoStore(newTestDB(t))
	ctx := context.Background()

	v := testVideo("dQw4w9WgXcQ")
	require.NoError(t, s.Save(ctx, v))
	require.NoError(t, s.Save(ctx, v.WithChunkCount(12)))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	got, err := s.FindOne(ctx, video.WithID("dQw4w9WgXcQ"))
	require.NoError(t, err)
	assert.Equal(t, 12, got.ChunkCount())
}

func TestVideoStoreFindOneNotFound(t *testing.T) {
	s := NewVideoStore(newTestDB(t))

	_, err := s.FindOne(context.Background(), video.WithID("missing00000"))
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestVideoStoreDeleteBy(t *testing.T) {
	s := NewVideoStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testVideo("aaaaaaaaaaa")))
	require.NoError(t, s.Save(ctx, testVideo("bbbbbbbbbbb")))

	require.NoError(t, s.DeleteBy(ctx, video.WithID("aaaaaaaaaaa")))

	exists, err := s.Exists(ctx, video.WithID("aaaaaaaaaaa"))
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func testChunks(videoID string, n int) []video.Chunk {
	chunks := make([]video.Chunk, n)
	for i := range chunks {
		start := time.Duration(i) * 30 * time.Second
		chunks[i] = video.NewChunk(videoID, i, "chunk text", start, start+30*time.Second)
	}
	return chunks
}

func TestChunkStoreReplaceAll(t *testing.T) {
	s := NewChunkStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, "vidA", testChunks("vidA", 3)))
	require.NoError(t, s.ReplaceAll(ctx, "vidA", testChunks("vidA", 2)))

	count, err := s.Count(ctx, store.WithVideoID("vidA"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestChunkStoreReplaceAllEmptyClears(t *testing.T) {
	s := NewChunkStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, "vidA", testChunks("vidA", 3)))
	require.NoError(t, s.ReplaceAll(ctx, "vidA", nil))

	count, err := s.Count(ctx, store.WithVideoID("vidA"))
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestChunkStoreFindByIDsPreservesOrder(t *testing.T) {
	s := NewChunkStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, "vidA", testChunks("vidA", 4)))

	got, err := s.FindByIDs(ctx, []string{"vidA:2", "vidA:0", "vidA:9", "vidA:3"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "vidA:2", got[0].ID())
	assert.Equal(t, "vidA:0", got[1].ID())
	assert.Equal(t, "vidA:3", got[2].ID())
}

func TestChunkStoreFindByVideoOrdered(t *testing.T) {
	s := NewChunkStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, "vidA", testChunks("vidA", 3)))
	require.NoError(t, s.ReplaceAll(ctx, "vidB", testChunks("vidB", 1)))

	got, err := s.Find(ctx, store.WithVideoID("vidA"), store.WithOrderAsc("chunk_idx"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range got {
		assert.Equal(t, i, c.Index())
		assert.Equal(t, "vidA", c.VideoID())
	}
}

func TestTranscriptCacheRoundTrip(t *testing.T) {
	c := NewTranscriptCache(newTestDB(t))
	ctx := context.Background()

	segments := []video.Segment{
		video.NewSegment("hello world", 0, 2*time.Second),
		video.NewSegment("more words", 2*time.Second, 3*time.Second),
	}
	transcript := video.NewTranscript("vidA", "en", true, segments)

	require.NoError(t, c.Put(ctx, transcript))

	got, ok, err := c.Get(ctx, "vidA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "vidA", got.VideoID())
	assert.Equal(t, "en", got.Language())
	assert.True(t, got.Generated())
	require.Len(t, got.Segments(), 2)
	assert.Equal(t, "hello world", got.Segments()[0].Text())
	assert.Equal(t, 2*time.Second, got.Segments()[1].Start())
}

func TestTranscriptCacheMiss(t *testing.T) {
	c := NewTranscriptCache(newTestDB(t))

	_, ok, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTranscriptCachePutReplaces(t *testing.T) {
	c := NewTranscriptCache(newTestDB(t))
	ctx := context.Background()

	first := video.NewTranscript("vidA", "en", true,
		[]video.Segment{video.NewSegment("old", 0, time.Second)})
	second := video.NewTranscript("vidA", "de", false,
		[]video.Segment{video.NewSegment("neu", 0, time.Second)})

	require.NoError(t, c.Put(ctx, first))
	require.NoError(t, c.Put(ctx, second))

	got, ok, err := c.Get(ctx, "vidA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "de", got.Language())
	assert.False(t, got.Generated())
}

func TestTranscriptCacheDelete(t *testing.T) {
	c := NewTranscriptCache(newTestDB(t))
	ctx := context.Background()

	transcript := video.NewTranscript("vidA", "en", false,
		[]video.Segment{video.NewSegment("text", 0, time.Second)})
	require.NoError(t, c.Put(ctx, transcript))
	require.NoError(t, c.Delete(ctx, "vidA"))

	_, ok, err := c.Get(ctx, "vidA")
	require.NoError(t, err)
	assert.False(t, ok)
}
