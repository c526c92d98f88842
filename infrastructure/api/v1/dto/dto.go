// Package dto defines the JSON request and response shapes of the v1 API.
package dto

import (
	"time"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/domain/qa"
	"github.com/vidqa/vidqa/domain/video"
)

// VideoResponse describes an indexed video.
type VideoResponse struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Uploader   string    `json:"uploader"`
	UploadDate string    `json:"upload_date,omitempty"`
	Duration   float64   `json:"duration_seconds"`
	Language   string    `json:"language,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// FromVideo converts a domain Video.
func FromVideo(v video.Video) VideoResponse {
	return VideoResponse{
		ID:         v.ID(),
		URL:        v.URL(),
		Title:      v.Title(),
		Uploader:   v.Uploader(),
		UploadDate: v.UploadDate(),
		Duration:   v.Duration().Seconds(),
		Language:   v.Language(),
		ChunkCount: v.ChunkCount(),
		IndexedAt:  v.IndexedAt(),
	}
}

// VideoListResponse is the GET /videos payload.
type VideoListResponse struct {
	Videos []VideoResponse `json:"videos"`
}

// AddVideosRequest is the POST /videos payload.
type AddVideosRequest struct {
	URLs         []string `json:"urls"`
	ForceRefresh bool     `json:"force_refresh,omitempty"`
}

// AddVideoResult reports the outcome for one submitted URL.
type AddVideoResult struct {
	Input string         `json:"input"`
	Video *VideoResponse `json:"video,omitempty"`
	Error string         `json:"error,omitempty"`
}

// AddVideosResponse is the POST /videos response.
type AddVideosResponse struct {
	Results []AddVideoResult `json:"results"`
}

// FromAddResults converts batch addition outcomes.
func FromAddResults(results []service.AddResult) AddVideosResponse {
	out := AddVideosResponse{Results: make([]AddVideoResult, len(results))}
	for i, r := range results {
		item := AddVideoResult{Input: r.Input()}
		if r.Err() != nil {
			item.Error = r.Err().Error()
		} else {
			v := FromVideo(r.Video())
			item.Video = &v
		}
		out.Results[i] = item
	}
	return out
}

// SourceResponse describes one retrieved transcript excerpt.
type SourceResponse struct {
	ChunkID   string  `json:"chunk_id"`
	VideoID   string  `json:"video_id"`
	Title     string  `json:"title"`
	Uploader  string  `json:"uploader,omitempty"`
	Timestamp string  `json:"timestamp"`
	Start     float64 `json:"start_seconds"`
	Score     float64 `json:"score"`
	Text      string  `json:"text"`
}

// FromSources converts domain sources.
func FromSources(sources []qa.Source) []SourceResponse {
	out := make([]SourceResponse, len(sources))
	for i, s := range sources {
		out[i] = SourceResponse{
			ChunkID:   s.ChunkID(),
			VideoID:   s.VideoID(),
			Title:     s.Title(),
			Uploader:  s.Uploader(),
			Timestamp: video.FormatTimestamp(s.Start()),
			Start:     s.Start().Seconds(),
			Score:     s.Score(),
			Text:      s.Text(),
		}
	}
	return out
}

// AskRequest is the POST /ask payload.
type AskRequest struct {
	Question         string  `json:"question"`
	TopK             int     `json:"top_k,omitempty"`
	MinScore         float64 `json:"min_score,omitempty"`
	VideoID          string  `json:"video_id,omitempty"`
	PreviousQuestion string  `json:"previous_question,omitempty"`
	IncludeSources   *bool   `json:"include_sources,omitempty"`
}

// AskResponse is the POST /ask response.
type AskResponse struct {
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Fallback bool             `json:"fallback"`
	Sources  []SourceResponse `json:"sources,omitempty"`
}

// SearchRequest is the POST /search payload.
type SearchRequest struct {
	Query    string  `json:"query"`
	TopK     int     `json:"top_k,omitempty"`
	MinScore float64 `json:"min_score,omitempty"`
	VideoID  string  `json:"video_id,omitempty"`
}

// SearchResponse is the POST /search response.
type SearchResponse struct {
	Results []SourceResponse `json:"results"`
}

// StatsResponse is the GET /stats payload.
type StatsResponse struct {
	Videos         int64  `json:"videos"`
	Chunks         int64  `json:"chunks"`
	EmbeddingModel string `json:"embedding_model"`
	AnswerModel    string `json:"answer_model"`
}

// FromStats converts library stats.
func FromStats(s service.LibraryStats) StatsResponse {
	return StatsResponse{
		Videos:         s.VideoCount(),
		Chunks:         s.ChunkCount(),
		EmbeddingModel: s.EmbeddingModel(),
		AnswerModel:    s.AnswerModel(),
	}
}
