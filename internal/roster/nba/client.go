// Package nba implements [roster.Source] against the stats.nba.com JSON API.
//
// The endpoint is unofficial and fronted by aggressive bot protection, so the
// client sends a full browser header set and treats 5xx responses as
// transient. Requests run through a retry loop wrapped around a circuit
// breaker: the breaker trips after repeated failures so a hard outage fails
// fast instead of burning the full backoff schedule on every call.
package nba

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MrWong99/courtside/internal/resilience"
	"github.com/MrWong99/courtside/internal/roster"
)

const (
	defaultBaseURL = "https://stats.nba.com/stats"
	playersPath    = "/commonallplayers"

	// leagueID selects the NBA proper (G League is "20", WNBA "10").
	leagueID = "00"

	requestTimeout = 15 * time.Second
)

// browserHeaders are required by the stats endpoint; requests without them
// are rejected or silently stalled.
var browserHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Origin":             "https://www.nba.com",
	"Referer":            "https://www.nba.com/",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// StatusError reports a non-2xx response from the stats endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nba: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status indicates a transient server-side
// condition worth retrying.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Client fetches active players from the stats endpoint. It implements
// [roster.Source]. The zero value is not usable; use [NewClient].
type Client struct {
	baseURL string
	httpc   *http.Client
	retry   resilience.RetryConfig
	breaker *resilience.Breaker
}

var _ roster.Source = (*Client)(nil)

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the stats endpoint base URL. Used in tests to point
// at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying [http.Client].
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithRetry replaces the retry schedule.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// NewClient creates a stats client with a 15 second request timeout and the
// default retry schedule.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
		retry:   resilience.DefaultRetryConfig(),
		breaker: resilience.NewBreaker(resilience.BreakerConfig{Name: "nba-stats"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// statsResponse is the endpoint's tabular envelope: every result set carries
// its column names separately from the row values.
type statsResponse struct {
	ResultSets []struct {
		Name    string   `json:"name"`
		Headers []string `json:"headers"`
		RowSet  [][]any  `json:"rowSet"`
	} `json:"resultSets"`
}

// AllPlayers fetches the full player table for season and returns only the
// players whose final listed season matches it, i.e. the currently active
// roster. Players without a team are labelled [roster.FreeAgentTeam].
func (c *Client) AllPlayers(ctx context.Context, season roster.Season) ([]roster.PlayerRecord, error) {
	var records []roster.PlayerRecord
	err := resilience.Retry(ctx, c.retry, retryable, func(ctx context.Context) error {
		return c.breaker.Execute(func() error {
			var err error
			records, err = c.fetchPlayers(ctx, season)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// retryable classifies fetch errors: transient 5xx statuses and transport
// failures retry, everything else (4xx, parse errors, open breaker) does not.
func retryable(err error) bool {
	if errors.Is(err, resilience.ErrBreakerOpen) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	// http.Client.Do wraps connection and timeout failures in *url.Error.
	var ue *url.Error
	return errors.As(err, &ue)
}

func (c *Client) fetchPlayers(ctx context.Context, season roster.Season) ([]roster.PlayerRecord, error) {
	q := url.Values{}
	q.Set("LeagueID", leagueID)
	q.Set("Season", string(season))
	q.Set("IsOnlyCurrentSeason", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+playersPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nba: build request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nba: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("nba: decode response: %w", err)
	}
	return extractPlayers(parsed, season)
}

// extractPlayers converts the tabular response into player records, keeping
// only players active in the requested season.
func extractPlayers(parsed statsResponse, season roster.Season) ([]roster.PlayerRecord, error) {
	if len(parsed.ResultSets) == 0 {
		return nil, errors.New("nba: response has no result sets")
	}
	rs := parsed.ResultSets[0]

	idx := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		idx[h] = i
	}
	for _, required := range []string{"PERSON_ID", "DISPLAY_FIRST_LAST", "TO_YEAR"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("nba: result set missing column %s", required)
		}
	}

	startYear := season.StartYear()
	records := make([]roster.PlayerRecord, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		if asString(row, idx, "TO_YEAR") != startYear {
			continue
		}
		rec := roster.PlayerRecord{
			PlayerID: asInt64(row, idx, "PERSON_ID"),
			FullName: asString(row, idx, "DISPLAY_FIRST_LAST"),
			TeamID:   asInt64(row, idx, "TEAM_ID"),
			Team:     asString(row, idx, "TEAM_NAME"),
			IsActive: true,
		}
		if rec.FullName == "" {
			continue
		}
		if rec.TeamID == 0 || rec.Team == "" {
			rec.Team = roster.FreeAgentTeam
		}
		records = append(records, rec)
	}
	return records, nil
}

// asString reads a cell as a string, tolerating null and numeric cells (the
// endpoint stores year columns as strings but is not consistent about it).
func asString(row []any, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// asInt64 reads a cell as an integer. JSON numbers decode as float64.
func asInt64(row []any, idx map[string]int, col string) int64 {
	i, ok := idx[col]
	if !ok || i >= len(row) || row[i] == nil {
		return 0
	}
	if f, ok := row[i].(float64); ok {
		return int64(f)
	}
	return 0
}
