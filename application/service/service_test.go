package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vidqa/vidqa/domain/search"
	"github.com/vidqa/vidqa/domain/store"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/internal/config"
	"github.com/vidqa/vidqa/internal/database"
	"github.com/vidqa/vidqa/infrastructure/provider"
)

// Shared in-memory fakes for exercising the services without a database.

type fakeFetcher struct {
	mu         sync.Mutex
	calls      int
	videos     map[string]video.Video
	transcript map[string]video.Transcript
	err        error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		videos:     map[string]video.Video{},
		transcript: map[string]video.Transcript{},
	}
}

func (f *fakeFetcher) add(v video.Video, t video.Transcript) {
	f.videos[v.ID()] = v
	f.transcript[v.ID()] = t
}

func (f *fakeFetcher) FetchVideo(_ context.Context, videoID string, _ []string) (video.Video, video.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return video.Video{}, video.Transcript{}, f.err
	}
	v, ok := f.videos[videoID]
	if !ok {
		return video.Video{}, video.Transcript{}, fmt.Errorf("unknown video %s", videoID)
	}
	return v, f.transcript[videoID], nil
}

type fakeVideoStore struct {
	mu     sync.Mutex
	videos map[string]video.Video
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: map[string]video.Video{}}
}

func (s *fakeVideoStore) Save(_ context.Context, v video.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[v.ID()] = v
	return nil
}

func idCondition(options ...store.Option) (string, bool) {
	q := store.Build(options...)
	for _, cond := range q.Conditions() {
		if cond.Field() == "id" && !cond.In() {
			id, ok := cond.Value().(string)
			return id, ok
		}
	}
	return "", false
}

func idInCondition(options ...store.Option) ([]string, bool) {
	q := store.Build(options...)
	for _, cond := range q.Conditions() {
		if cond.Field() == "id" && cond.In() {
			ids, ok := cond.Value().([]string)
			return ids, ok
		}
	}
	return nil, false
}

func (s *fakeVideoStore) Find(_ context.Context, options ...store.Option) ([]video.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ids, ok := idInCondition(options...); ok {
		result := []video.Video{}
		for _, id := range ids {
			if v, found := s.videos[id]; found {
				result = append(result, v)
			}
		}
		return result, nil
	}
	result := make([]video.Video, 0, len(s.videos))
	for _, v := range s.videos {
		result = append(result, v)
	}
	return result, nil
}

func (s *fakeVideoStore) FindOne(_ context.Context, options ...store.Option) (video.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := idCondition(options...); ok {
		if v, found := s.videos[id]; found {
			return v, nil
		}
	}
	return video.Video{}, database.ErrNotFound
}

func (s *fakeVideoStore) Exists(ctx context.Context, options ...store.Option) (bool, error) {
	_, err := s.FindOne(ctx, options...)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *fakeVideoStore) Count(_ context.Context, _ ...store.Option) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.videos)), nil
}

func (s *fakeVideoStore) DeleteBy(_ context.Context, options ...store.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := idCondition(options...); ok {
		delete(s.videos, id)
		return nil
	}
	s.videos = map[string]video.Video{}
	return nil
}

type fakeChunkStore struct {
	mu     sync.Mutex
	chunks map[string][]video.Chunk
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{chunks: map[string][]video.Chunk{}}
}

func videoIDCondition(options ...store.Option) (string, bool) {
	q := store.Build(options...)
	for _, cond := range q.Conditions() {
		if cond.Field() == "video_id" && !cond.In() {
			id, ok := cond.Value().(string)
			return id, ok
		}
	}
	return "", false
}

func (s *fakeChunkStore) ReplaceAll(_ context.Context, videoID string, chunks []video.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(chunks) == 0 {
		delete(s.chunks, videoID)
		return nil
	}
	s.chunks[videoID] = chunks
	return nil
}

func (s *fakeChunkStore) Find(_ context.Context, options ...store.Option) ([]video.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := videoIDCondition(options...); ok {
		return s.chunks[id], nil
	}
	all := []video.Chunk{}
	for _, cs := range s.chunks {
		all = append(all, cs...)
	}
	return all, nil
}

func (s *fakeChunkStore) FindByIDs(_ context.Context, ids []string) ([]video.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := map[string]video.Chunk{}
	for _, cs := range s.chunks {
		for _, c := range cs {
			byID[c.ID()] = c
		}
	}
	result := []video.Chunk{}
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *fakeChunkStore) Count(_ context.Context, options ...store.Option) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := videoIDCondition(options...); ok {
		return int64(len(s.chunks[id])), nil
	}
	var n int64
	for _, cs := range s.chunks {
		n += int64(len(cs))
	}
	return n, nil
}

func (s *fakeChunkStore) DeleteBy(_ context.Context, options ...store.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := videoIDCondition(options...); ok {
		delete(s.chunks, id)
		return nil
	}
	s.chunks = map[string][]video.Chunk{}
	return nil
}

type fakeTranscriptCache struct {
	mu          sync.Mutex
	transcripts map[string]video.Transcript
}

func newFakeTranscriptCache() *fakeTranscriptCache {
	return &fakeTranscriptCache{transcripts: map[string]video.Transcript{}}
}

func (c *fakeTranscriptCache) Get(_ context.Context, videoID string) (video.Transcript, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.transcripts[videoID]
	return t, ok, nil
}

func (c *fakeTranscriptCache) Put(_ context.Context, t video.Transcript) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcripts[t.VideoID()] = t
	return nil
}

func (c *fakeTranscriptCache) Delete(_ context.Context, videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.transcripts, videoID)
	return nil
}

// fakeVectorStore records indexed documents and serves canned results.
type fakeVectorStore struct {
	mu        sync.Mutex
	indexed   map[string]string
	results   []search.Result
	lastQuery string
	err       error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{indexed: map[string]string{}}
}

func (v *fakeVectorStore) Index(_ context.Context, req search.IndexRequest) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return v.err
	}
	for _, d := range req.Documents() {
		v.indexed[d.ID()] = d.Text()
	}
	return nil
}

func (v *fakeVectorStore) Search(_ context.Context, options ...store.Option) ([]search.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if q, ok := search.QueryFrom(store.Build(options...)); ok {
		v.lastQuery = q
	}
	if v.err != nil {
		return nil, v.err
	}
	return v.results, nil
}

func (v *fakeVectorStore) HasEmbeddings(_ context.Context, chunkIDs []string) (map[string]bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	result := map[string]bool{}
	for _, id := range chunkIDs {
		_, ok := v.indexed[id]
		result[id] = ok
	}
	return result, nil
}

func (v *fakeVectorStore) DeleteBy(_ context.Context, options ...store.Option) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if id, ok := videoIDCondition(options...); ok {
		for chunkID := range v.indexed {
			if c, found := parseChunkVideo(chunkID); found && c == id {
				delete(v.indexed, chunkID)
			}
		}
		return nil
	}
	v.indexed = map[string]string{}
	return nil
}

func parseChunkVideo(chunkID string) (string, bool) {
	for i := len(chunkID) - 1; i >= 0; i-- {
		if chunkID[i] == ':' {
			return chunkID[:i], true
		}
	}
	return "", false
}

type fakeGenerator struct {
	response string
	err      error
	lastReq  provider.ChatCompletionRequest
}

func (g *fakeGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	g.lastReq = req
	if g.err != nil {
		return provider.ChatCompletionResponse{}, g.err
	}
	return provider.NewChatCompletionResponse(g.response, "stop", provider.Usage{}), nil
}

func testConfig() *config.AppConfig {
	return config.NewAppConfig()
}

func testTranscript(videoID string, text string) video.Transcript {
	return video.NewTranscript(videoID, "en", false, []video.Segment{
		video.NewSegment(text, 0, 10*time.Second),
	})
}
