package content

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

// videoIDPattern covers watch?v=, youtu.be/, embed/, v/, shorts/ and live/ URL shapes.
var videoIDPattern = regexp.MustCompile(
	`(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:[^#]*&)?v=|embed/|v/|shorts/|live/)|youtu\.be/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`,
)

// ExtractVideoID returns the 11-character video id from a YouTube URL.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", apperr.New(apperr.InvalidURL, "extract video id", "no YouTube video id in url: "+rawURL)
	}
	return m[1], nil
}

// TranscriptFetcher returns the spoken text of a video.
type TranscriptFetcher interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

const defaultTimedTextURL = "https://www.youtube.com/api/timedtext"

// TimedTextFetcher reads the caption track YouTube publishes for a video.
type TimedTextFetcher struct {
	baseURL string
	lang    string
	client  *http.Client
}

func NewTimedTextFetcher(lang string, timeout time.Duration) *TimedTextFetcher {
	if lang == "" {
		lang = "en"
	}
	return &TimedTextFetcher{
		baseURL: defaultTimedTextURL,
		lang:    lang,
		client:  &http.Client{Timeout: timeout},
	}
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

func (f *TimedTextFetcher) Transcript(ctx context.Context, videoID string) (string, error) {
	q := url.Values{"v": {videoID}, "lang": {f.lang}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build timedtext request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Transport, "fetch transcript", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.New(apperr.Transport, "fetch transcript",
			fmt.Sprintf("timedtext returned %d for video %s", resp.StatusCode, videoID))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.Transport, "read transcript", err)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", apperr.Wrap(apperr.Transport, "parse transcript", err)
	}

	parts := make([]string, 0, len(tt.Lines))
	for _, l := range tt.Lines {
		// caption text is entity-escaped twice
		if s := strings.TrimSpace(html.UnescapeString(l.Text)); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", apperr.New(apperr.EmptyContent, "fetch transcript", "no captions available for video "+videoID)
	}
	return collapseWhitespace(strings.Join(parts, " ")), nil
}
