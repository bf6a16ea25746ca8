// Package app wires the roster, transcript, and chat layers into the
// interactive analyzer session driven by the REPL.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrWong99/courtside/internal/chat"
	"github.com/MrWong99/courtside/internal/observe"
	"github.com/MrWong99/courtside/internal/roster"
	"github.com/MrWong99/courtside/internal/transcript"
	"github.com/MrWong99/courtside/internal/youtube"
	"github.com/MrWong99/courtside/pkg/provider/llm"
)

// ErrNoSession is returned by Ask when no video has been loaded yet.
var ErrNoSession = errors.New("app: no active chat session, load a video first")

// TranscriptFetcher abstracts the caption download so the app can be tested
// without the network. Implemented by [youtube.TranscriptClient].
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) ([]youtube.CaptionSegment, error)
}

// VideoResult summarises a successful video load.
type VideoResult struct {
	// VideoID is the extracted 11-character video identifier.
	VideoID string

	// Transcript is the cleaned, name-corrected transcript text.
	Transcript string

	// Corrections lists the player-name replacements that were applied.
	Corrections []transcript.Correction

	// SessionID identifies the chat session seeded with the transcript.
	SessionID string
}

// App holds the state of one analyzer run: the active roster, the last loaded
// transcript, and the chat session seeded with it. Loading a new video
// replaces the transcript and session wholesale; the roster persists across
// videos. All exported methods are safe for concurrent use.
type App struct {
	fetcher     *roster.Fetcher
	transcripts TranscriptFetcher
	provider    llm.Provider
	season      roster.Season

	threshold   int
	temperature float64
	maxTokens   int

	mu          sync.Mutex
	rosterNames []string
	corrected   string
	session     *chat.Session
}

// Options configures [New].
type Options struct {
	// Fetcher resolves the active roster. Required.
	Fetcher *roster.Fetcher

	// Transcripts downloads caption tracks. Required.
	Transcripts TranscriptFetcher

	// Provider is the LLM backend for chat sessions. Required.
	Provider llm.Provider

	// Season selects the roster season. Zero means the season containing
	// the current date.
	Season roster.Season

	// Threshold overrides the corrector's similarity threshold. Zero means
	// the corrector default.
	Threshold int

	// Temperature and MaxTokens are forwarded to chat sessions.
	Temperature float64
	MaxTokens   int
}

// New creates an App. The roster is not fetched until [App.RefreshRoster] or
// the first [App.LoadVideo] call.
func New(opts Options) (*App, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("app: roster fetcher is required")
	}
	if opts.Transcripts == nil {
		return nil, errors.New("app: transcript fetcher is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("app: llm provider is required")
	}

	season := opts.Season
	if season == "" {
		season = roster.SeasonFor(time.Now())
	}

	return &App{
		fetcher:     opts.Fetcher,
		transcripts: opts.Transcripts,
		provider:    opts.Provider,
		season:      season,
		threshold:   opts.Threshold,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}, nil
}

// Season returns the roster season the app resolves against.
func (a *App) Season() roster.Season {
	return a.season
}

// RefreshRoster resolves the active roster, bypassing the cache freshness
// window when invalidate is set. Returns the number of players loaded. A
// failed fetch degrades to stale or empty data rather than erroring.
func (a *App) RefreshRoster(ctx context.Context, invalidate bool) int {
	ctx, span := observe.StartSpan(ctx, "app.refresh_roster")
	defer span.End()

	records := a.fetcher.Fetch(ctx, a.season, roster.FetchOptions{
		UseCache:        true,
		InvalidateCache: invalidate,
	})
	names := roster.Names(records)

	a.mu.Lock()
	a.rosterNames = names
	a.mu.Unlock()
	return len(names)
}

// RosterSize returns the number of names currently loaded, without touching
// cache or network.
func (a *App) RosterSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.rosterNames)
}

// LoadVideo downloads the transcript for videoURL, cleans and name-corrects
// it, and starts a fresh chat session seeded with the result. Any previous
// session is discarded. The roster is loaded on first use.
func (a *App) LoadVideo(ctx context.Context, videoURL string) (*VideoResult, error) {
	ctx, span := observe.StartSpan(ctx, "app.load_video")
	defer span.End()

	videoID, err := youtube.ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	if a.RosterSize() == 0 {
		a.RefreshRoster(ctx, false)
	}

	segments, err := a.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("app: fetch transcript: %w", err)
	}

	cleaned := transcript.Clean(youtube.Text(segments))
	if cleaned == "" {
		return nil, fmt.Errorf("app: transcript for %s is empty after cleaning", videoID)
	}

	a.mu.Lock()
	names := a.rosterNames
	a.mu.Unlock()

	var copts []transcript.Option
	if a.threshold > 0 {
		copts = append(copts, transcript.WithThreshold(a.threshold))
	}
	corrected, corrections := transcript.NewCorrector(names, copts...).Correct(cleaned)
	if len(corrections) > 0 {
		observe.DefaultMetrics().CorrectionsApplied.Add(ctx, int64(len(corrections)))
	}

	var sopts []chat.SessionOption
	if a.temperature > 0 {
		sopts = append(sopts, chat.WithTemperature(a.temperature))
	}
	if a.maxTokens > 0 {
		sopts = append(sopts, chat.WithMaxTokens(a.maxTokens))
	}
	session, err := chat.NewSession(a.provider, corrected, sopts...)
	if err != nil {
		return nil, fmt.Errorf("app: start chat session: %w", err)
	}

	a.mu.Lock()
	a.corrected = corrected
	a.session = session
	a.mu.Unlock()

	observe.Logger(ctx).Info("video loaded",
		"video_id", videoID,
		"transcript_chars", len(corrected),
		"corrections", len(corrections),
		"session", session.ID(),
	)
	return &VideoResult{
		VideoID:     videoID,
		Transcript:  corrected,
		Corrections: corrections,
		SessionID:   session.ID(),
	}, nil
}

// Transcript returns the corrected transcript of the last loaded video, or
// the empty string when none is loaded.
func (a *App) Transcript() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.corrected
}

// Ask forwards question to the active chat session.
func (a *App) Ask(ctx context.Context, question string) (string, error) {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()

	if session == nil {
		return "", ErrNoSession
	}
	return session.Ask(ctx, question)
}
