// Package smoke provides smoke tests for the vidqa API.
// Expects a running vidqa server at baseURL.
package smoke

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

const (
	baseHost = "127.0.0.1"
	basePort = 8080

	// A short, stable video with reliable captions.
	targetVideo = "jNQXAC9IVRw"
)

var baseURL = fmt.Sprintf("http://%s:%d/api/v1", baseHost, basePort)
var rootURL = fmt.Sprintf("http://%s:%d", baseHost, basePort)

func TestSmoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping smoke test in short mode")
	}

	client := &http.Client{Timeout: 5 * time.Minute}

	t.Run("health", func(t *testing.T) {
		rsp, err := client.Get(rootURL + "/health")
		if err != nil {
			t.Fatalf("health request failed: %v", err)
		}
		defer func() { _ = rsp.Body.Close() }()
		if rsp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", rsp.StatusCode)
		}
	})

	t.Run("video_not_found", func(t *testing.T) {
		rsp, err := client.Get(baseURL + "/videos/AAAAAAAAAAA")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer func() { _ = rsp.Body.Close() }()
		if rsp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rsp.StatusCode)
		}
	})

	body, err := json.Marshal(map[string]any{"urls": []string{targetVideo}})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+"/videos", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("VIDQA_SMOKE_API_KEY"); key != "" {
		req.Header.Set("X-API-KEY", key)
	}
	rsp, err := client.Do(req)
	if err != nil {
		t.Fatalf("add video failed: %v", err)
	}
	defer func() { _ = rsp.Body.Close() }()
	if rsp.StatusCode != http.StatusCreated && rsp.StatusCode != http.StatusMultiStatus {
		t.Fatalf("expected 201 or 207, got %d", rsp.StatusCode)
	}
	var added struct {
		Results []struct {
			Input string `json:"input"`
			Error string `json:"error,omitempty"`
			Video *struct {
				ID         string `json:"id"`
				ChunkCount int    `json:"chunk_count"`
			} `json:"video,omitempty"`
		} `json:"results"`
	}
	if err := json.NewDecoder(rsp.Body).Decode(&added); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	if len(added.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(added.Results))
	}
	if added.Results[0].Error != "" {
		t.Fatalf("add video failed: %s", added.Results[0].Error)
	}
	if added.Results[0].Video == nil || added.Results[0].Video.ChunkCount == 0 {
		t.Fatal("expected at least one chunk for the indexed video")
	}
	t.Logf("indexed video %s with %d chunks", targetVideo, added.Results[0].Video.ChunkCount)

	t.Run("list_videos", func(t *testing.T) {
		rsp, err := client.Get(baseURL + "/videos")
		if err != nil {
			t.Fatalf("list request failed: %v", err)
		}
		defer func() { _ = rsp.Body.Close() }()
		if rsp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", rsp.StatusCode)
		}
		var list struct {
			Videos []struct {
				ID string `json:"id"`
			} `json:"videos"`
		}
		if err := json.NewDecoder(rsp.Body).Decode(&list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		found := false
		for _, v := range list.Videos {
			if v.ID == targetVideo {
				found = true
			}
		}
		if !found {
			t.Fatalf("video %s not in list", targetVideo)
		}
	})

	t.Run("search", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{"query": "elephants at the zoo"})
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		rsp, err := client.Post(baseURL+"/search", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("search request failed: %v", err)
		}
		defer func() { _ = rsp.Body.Close() }()
		if rsp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", rsp.StatusCode)
		}
		var result struct {
			Results []struct {
				ChunkID string  `json:"chunk_id"`
				Score   float64 `json:"score"`
			} `json:"results"`
		}
		if err := json.NewDecoder(rsp.Body).Decode(&result); err != nil {
			t.Fatalf("decode search: %v", err)
		}
		if len(result.Results) == 0 {
			t.Fatal("expected at least one search result")
		}
	})

	t.Run("ask", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{"question": "What is this video about?"})
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		rsp, err := client.Post(baseURL+"/ask", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("ask request failed: %v", err)
		}
		defer func() { _ = rsp.Body.Close() }()
		if rsp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", rsp.StatusCode)
		}
		var answer struct {
			Answer  string `json:"answer"`
			Sources []any  `json:"sources"`
		}
		if err := json.NewDecoder(rsp.Body).Decode(&answer); err != nil {
			t.Fatalf("decode answer: %v", err)
		}
		if answer.Answer == "" {
			t.Fatal("expected a non-empty answer")
		}
	})

	t.Run("stats", func(t *testing.T) {
		rsp, err := client.Get(baseURL + "/stats")
		if err != nil {
			t.Fatalf("stats request failed: %v", err)
		}
		defer func() { _ = rsp.Body.Close() }()
		if rsp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", rsp.StatusCode)
		}
		var stats struct {
			VideoCount int64 `json:"videos"`
			ChunkCount int64 `json:"chunks"`
		}
		if err := json.NewDecoder(rsp.Body).Decode(&stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.VideoCount < 1 || stats.ChunkCount < 1 {
			t.Fatalf("expected non-zero counts, got videos=%d chunks=%d", stats.VideoCount, stats.ChunkCount)
		}
	})

	t.Run("remove_video", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, baseURL+"/videos/"+targetVideo, nil)
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		if key := os.Getenv("VIDQA_SMOKE_API_KEY"); key != "" {
			req.Header.Set("X-API-KEY", key)
		}
		rsp, err := client.Do(req)
		if err != nil {
			t.Fatalf("delete request failed: %v", err)
		}
		defer func() { _ = rsp.Body.Close() }()
		if rsp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rsp.StatusCode)
		}
	})
}
