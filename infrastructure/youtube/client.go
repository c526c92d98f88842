// Package youtube fetches video metadata and caption tracks from YouTube's
// public watch pages. No API key is required.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/internal/log"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxBodySize      = 20 << 20
)

// Client fetches transcripts and metadata from YouTube watch pages.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	baseURL   string
	logger    *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(cl *Client) {
		if rps > 0 {
			cl.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithUserAgent sets the User-Agent header sent to YouTube.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) { cl.userAgent = ua }
}

// WithBaseURL points the client at a different host. Used in tests.
func WithBaseURL(url string) ClientOption {
	return func(cl *Client) { cl.baseURL = strings.TrimSuffix(url, "/") }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(cl *Client) { cl.logger = l }
}

// NewClient creates a YouTube client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(2), 1),
		userAgent: defaultUserAgent,
		baseURL:   "https://www.youtube.com",
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a rate-limited GET and returns the response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// playerResponse is the slice of ytInitialPlayerResponse the client needs.
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	Microformat struct {
		PlayerMicroformatRenderer struct {
			UploadDate  string `json:"uploadDate"`
			PublishDate string `json:"publishDate"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

const playerResponseMarker = "ytInitialPlayerResponse = "

// fetchPlayerResponse loads the watch page and extracts the embedded player
// response JSON.
func (c *Client) fetchPlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	body, err := c.get(ctx, c.baseURL+"/watch?v="+videoID)
	if err != nil {
		return nil, err
	}

	idx := strings.Index(string(body), playerResponseMarker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: player response not found", ErrVideoUnavailable)
	}
	raw := string(body[idx+len(playerResponseMarker):])

	// The JSON object is followed by arbitrary script text, so decode a
	// single value and ignore the remainder.
	var pr playerResponse
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&pr); err != nil {
		return nil, fmt.Errorf("parse player response: %w", err)
	}

	if status := pr.PlayabilityStatus.Status; status != "" && status != "OK" {
		return nil, fmt.Errorf("%w: %s (%s)", ErrVideoUnavailable, status, pr.PlayabilityStatus.Reason)
	}
	return &pr, nil
}

// FetchVideo loads a video's metadata and transcript in one pass. Language
// preference order: a manually authored track in one of languages, then an
// auto-generated track in one of languages, then the first track available.
func (c *Client) FetchVideo(ctx context.Context, videoID string, languages []string) (video.Video, video.Transcript, error) {
	pr, err := c.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		return video.Video{}, video.Transcript{}, err
	}

	track, err := pickTrack(pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, languages)
	if err != nil {
		return video.Video{}, video.Transcript{}, fmt.Errorf("video %s: %w", videoID, err)
	}

	segments, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return video.Video{}, video.Transcript{}, fmt.Errorf("video %s: %w", videoID, err)
	}

	transcript := video.NewTranscript(videoID, track.LanguageCode, track.Kind == "asr", segments)
	meta := buildVideo(videoID, pr, transcript)

	c.logger.DebugContext(ctx, "fetched transcript",
		"video_id", videoID,
		"language", track.LanguageCode,
		"generated", track.Kind == "asr",
		"segments", len(segments),
	)
	return meta, transcript, nil
}

// FetchTranscript loads only the caption track of a video.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, languages []string) (video.Transcript, error) {
	_, transcript, err := c.FetchVideo(ctx, videoID, languages)
	return transcript, err
}

func buildVideo(videoID string, pr *playerResponse, t video.Transcript) video.Video {
	title := pr.VideoDetails.Title
	if title == "" {
		title = videoID
	}
	duration := parseLengthSeconds(pr.VideoDetails.LengthSeconds)
	if duration == 0 {
		duration = t.End()
	}
	uploadDate := pr.Microformat.PlayerMicroformatRenderer.UploadDate
	if uploadDate == "" {
		uploadDate = pr.Microformat.PlayerMicroformatRenderer.PublishDate
	}
	return video.NewVideo(videoID, title, pr.VideoDetails.Author, compactDate(uploadDate), duration, t.Language())
}

func parseLengthSeconds(s string) time.Duration {
	var secs int64
	if _, err := fmt.Sscanf(s, "%d", &secs); err != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// compactDate normalizes "2009-10-25" (possibly with a time suffix) to
// "20091025".
func compactDate(s string) string {
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:4] + s[5:7] + s[8:10]
	}
	return s
}

// pickTrack selects the best caption track for the preferred languages,
// falling back to English before taking whatever is first.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, error) {
	if len(tracks) == 0 {
		return captionTrack{}, ErrNoTranscript
	}
	for _, lang := range languages {
		for _, t := range tracks {
			if matchLanguage(t.LanguageCode, lang) && t.Kind != "asr" {
				return t, nil
			}
		}
	}
	for _, lang := range languages {
		for _, t := range tracks {
			if matchLanguage(t.LanguageCode, lang) {
				return t, nil
			}
		}
	}
	for _, t := range tracks {
		if matchLanguage(t.LanguageCode, "en") && t.Kind != "asr" {
			return t, nil
		}
	}
	for _, t := range tracks {
		if matchLanguage(t.LanguageCode, "en") {
			return t, nil
		}
	}
	return tracks[0], nil
}

// matchLanguage compares language codes, treating "en" as matching "en-US".
func matchLanguage(code, want string) bool {
	code = strings.ToLower(code)
	want = strings.ToLower(want)
	return code == want || strings.HasPrefix(code, want+"-")
}
