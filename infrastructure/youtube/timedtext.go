package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/vidqa/vidqa/domain/video"
)

// timedTextDoc mirrors the legacy timedtext XML format served at a caption
// track's baseUrl:
//
//	<transcript>
//	  <text start="1.3" dur="2.5">never gonna give you up</text>
//	</transcript>
type timedTextDoc struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedTextCue `xml:"text"`
}

type timedTextCue struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// fetchTimedText downloads and parses a caption track.
func (c *Client) fetchTimedText(ctx context.Context, baseURL string) ([]video.Segment, error) {
	url := baseURL
	if strings.HasPrefix(url, "/") {
		url = c.baseURL + url
	}
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

func parseTimedText(data []byte) ([]video.Segment, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}

	segments := make([]video.Segment, 0, len(doc.Texts))
	for _, cue := range doc.Texts {
		// Caption text is HTML-escaped a second time inside the XML.
		text := strings.TrimSpace(html.UnescapeString(cue.Body))
		if text == "" {
			continue
		}
		start, err := parseSeconds(cue.Start)
		if err != nil {
			return nil, fmt.Errorf("parse cue start %q: %w", cue.Start, err)
		}
		dur, err := parseSeconds(cue.Dur)
		if err != nil {
			return nil, fmt.Errorf("parse cue duration %q: %w", cue.Dur, err)
		}
		segments = append(segments, video.NewSegment(text, start, dur))
	}
	return segments, nil
}

func parseSeconds(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(f * float64(time.Second)), nil
}
