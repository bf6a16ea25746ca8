package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrWong99/courtside/internal/observe"
	"github.com/MrWong99/courtside/internal/resilience"
)

const (
	defaultBaseURL = "https://www.youtube.com/api/timedtext"
	defaultLang    = "en"

	requestTimeout = 30 * time.Second
)

// ErrNoTranscript indicates the video has no caption track in the requested
// language (or captions are disabled entirely).
var ErrNoTranscript = errors.New("youtube: no transcript available")

// CaptionSegment is one timed caption line.
type CaptionSegment struct {
	// Text is the caption text with segment fragments joined.
	Text string

	// Start is the offset from the beginning of the video.
	Start time.Duration

	// Duration is how long the caption stays on screen.
	Duration time.Duration
}

// Text joins all segment texts into a single space-separated string, the
// form the transcript cleaner consumes.
func Text(segments []CaptionSegment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if s := strings.TrimSpace(seg.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// TranscriptClient downloads caption tracks from the timedtext endpoint.
// Use [NewTranscriptClient]; the zero value is not usable.
type TranscriptClient struct {
	baseURL string
	lang    string
	httpc   *http.Client
	retry   resilience.RetryConfig
}

// TranscriptOption configures a [TranscriptClient].
type TranscriptOption func(*TranscriptClient)

// WithBaseURL overrides the timedtext endpoint. Used in tests.
func WithBaseURL(u string) TranscriptOption {
	return func(c *TranscriptClient) { c.baseURL = u }
}

// WithLanguage sets the caption language code (default "en").
func WithLanguage(lang string) TranscriptOption {
	return func(c *TranscriptClient) { c.lang = lang }
}

// WithHTTPClient replaces the underlying [http.Client].
func WithHTTPClient(hc *http.Client) TranscriptOption {
	return func(c *TranscriptClient) { c.httpc = hc }
}

// WithRetry replaces the retry schedule.
func WithRetry(cfg resilience.RetryConfig) TranscriptOption {
	return func(c *TranscriptClient) { c.retry = cfg }
}

// NewTranscriptClient creates a caption client with a 30 second request
// timeout.
func NewTranscriptClient(opts ...TranscriptOption) *TranscriptClient {
	c := &TranscriptClient{
		baseURL: defaultBaseURL,
		lang:    defaultLang,
		httpc:   &http.Client{Timeout: requestTimeout},
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// timedtextResponse is the endpoint's json3 envelope: a flat list of timed
// events, each carrying text fragments.
type timedtextResponse struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Fetch downloads the caption track for videoID. Returns [ErrNoTranscript]
// when the video has no captions in the client's language; an empty 200
// response means the same thing (the endpoint does not 404 for unknown
// tracks).
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) ([]CaptionSegment, error) {
	if videoID == "" {
		return nil, fmt.Errorf("youtube: video ID is required")
	}

	ctx, span := observe.StartSpan(ctx, "youtube.transcript.fetch")
	defer span.End()

	start := time.Now()
	var segments []CaptionSegment
	retryable := func(err error) bool {
		return !errors.Is(err, ErrNoTranscript) &&
			!errors.Is(err, context.Canceled) &&
			!errors.Is(err, context.DeadlineExceeded)
	}
	err := resilience.Retry(ctx, c.retry, retryable, func(ctx context.Context) error {
		var err error
		segments, err = c.fetch(ctx, videoID)
		return err
	})
	observe.DefaultMetrics().TranscriptFetchDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		observe.DefaultMetrics().RecordProviderError(ctx, "youtube", "transcript")
		return nil, err
	}
	return segments, nil
}

func (c *TranscriptClient) fetch(ctx context.Context, videoID string) ([]CaptionSegment, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", c.lang)
	q.Set("fmt", "json3")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept-Language", c.lang)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: video %s lang %s", ErrNoTranscript, videoID, c.lang)
	default:
		return nil, fmt.Errorf("youtube: timedtext returned status %d", resp.StatusCode)
	}

	var parsed timedtextResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// The endpoint answers 200 with an empty body when the track does
		// not exist.
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: video %s lang %s", ErrNoTranscript, videoID, c.lang)
		}
		return nil, fmt.Errorf("youtube: decode timedtext: %w", err)
	}

	segments := make([]CaptionSegment, 0, len(parsed.Events))
	for _, ev := range parsed.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		var text strings.Builder
		for _, seg := range ev.Segs {
			text.WriteString(seg.UTF8)
		}
		segments = append(segments, CaptionSegment{
			Text:     text.String(),
			Start:    time.Duration(ev.TStartMs) * time.Millisecond,
			Duration: time.Duration(ev.DDurationMs) * time.Millisecond,
		})
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: video %s lang %s", ErrNoTranscript, videoID, c.lang)
	}
	return segments, nil
}
