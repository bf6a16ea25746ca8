package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/MrWong99/courtside/internal/app"
	"github.com/MrWong99/courtside/internal/roster"
	"github.com/MrWong99/courtside/internal/youtube"
	"github.com/MrWong99/courtside/pkg/provider/llm"
	"github.com/MrWong99/courtside/pkg/provider/llm/mock"
)

// fakeRosterSource serves a fixed player list.
type fakeRosterSource struct {
	records []roster.PlayerRecord
	err     error
}

func (s *fakeRosterSource) AllPlayers(ctx context.Context, season roster.Season) ([]roster.PlayerRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// fakeTranscripts serves fixed caption segments.
type fakeTranscripts struct {
	segments []youtube.CaptionSegment
	err      error
	calls    int
}

func (f *fakeTranscripts) Fetch(ctx context.Context, videoID string) ([]youtube.CaptionSegment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

func newTestApp(t *testing.T, transcripts app.TranscriptFetcher, provider llm.Provider) *app.App {
	t.Helper()

	source := &fakeRosterSource{records: []roster.PlayerRecord{
		{PlayerID: 2544, FullName: "LeBron James", Team: "Lakers", IsActive: true},
		{PlayerID: 203999, FullName: "Nikola Jokic", Team: "Nuggets", IsActive: true},
	}}
	store := roster.NewStore(filepath.Join(t.TempDir(), "roster.json"))

	a, err := app.New(app.Options{
		Fetcher:     roster.NewFetcher(source, store),
		Transcripts: transcripts,
		Provider:    provider,
		Season:      "2025-26",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := app.New(app.Options{}); err == nil {
		t.Error("New(zero options) error = nil, want error")
	}
}

func TestApp_RefreshRoster(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeTranscripts{}, &mock.Provider{})
	if got := a.RosterSize(); got != 0 {
		t.Fatalf("RosterSize() before refresh = %d, want 0", got)
	}
	if got := a.RefreshRoster(context.Background(), false); got != 2 {
		t.Fatalf("RefreshRoster() = %d, want 2", got)
	}
	if got := a.RosterSize(); got != 2 {
		t.Errorf("RosterSize() = %d, want 2", got)
	}
}

func TestApp_LoadVideoCorrectsAndSeedsChat(t *testing.T) {
	t.Parallel()

	transcripts := &fakeTranscripts{segments: []youtube.CaptionSegment{
		{Text: "welcome back"},
		{Text: "Lebron   with the énorme dunk"},
	}}
	provider := &mock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "He looked dominant."},
	}
	a := newTestApp(t, transcripts, provider)

	result, err := a.LoadVideo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("LoadVideo() error = %v", err)
	}

	if result.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q, want dQw4w9WgXcQ", result.VideoID)
	}
	want := "welcome back LeBron James with the norme dunk"
	if result.Transcript != want {
		t.Errorf("Transcript = %q, want %q", result.Transcript, want)
	}
	if len(result.Corrections) != 1 || result.Corrections[0].Corrected != "LeBron James" {
		t.Errorf("Corrections = %+v, want one LeBron James correction", result.Corrections)
	}
	if result.SessionID == "" {
		t.Error("SessionID is empty")
	}
	if got := a.Transcript(); got != want {
		t.Errorf("Transcript() = %q, want the corrected text", got)
	}

	// The session must be usable right away.
	answer, err := a.Ask(context.Background(), "How did LeBron look?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "He looked dominant." {
		t.Errorf("Ask() = %q, want mock answer", answer)
	}
}

func TestApp_LoadVideoInvalidURL(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeTranscripts{}, &mock.Provider{})
	if _, err := a.LoadVideo(context.Background(), "https://vimeo.com/123"); err == nil {
		t.Fatal("LoadVideo() error = nil, want invalid URL error")
	}
}

func TestApp_LoadVideoTranscriptFailure(t *testing.T) {
	t.Parallel()

	transcripts := &fakeTranscripts{err: youtube.ErrNoTranscript}
	a := newTestApp(t, transcripts, &mock.Provider{})

	_, err := a.LoadVideo(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, youtube.ErrNoTranscript) {
		t.Fatalf("LoadVideo() error = %v, want wrapped ErrNoTranscript", err)
	}
}

func TestApp_UnconfiguredProviderDegradesChatOnly(t *testing.T) {
	t.Parallel()

	transcripts := &fakeTranscripts{segments: []youtube.CaptionSegment{
		{Text: "Jokic cooking tonight"},
	}}
	cause := errors.New("missing API key")
	a := newTestApp(t, transcripts, llm.Unconfigured(cause))

	// Roster and transcript handling must stay fully functional.
	if got := a.RefreshRoster(context.Background(), false); got != 2 {
		t.Fatalf("RefreshRoster() = %d, want 2", got)
	}
	result, err := a.LoadVideo(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("LoadVideo() error = %v", err)
	}
	if result.Transcript != "Nikola Jokic cooking tonight" {
		t.Errorf("Transcript = %q, want the corrected text", result.Transcript)
	}

	// Only chat fails, and with the configuration cause.
	if _, err := a.Ask(context.Background(), "who stood out?"); !errors.Is(err, cause) {
		t.Errorf("Ask() error = %v, want wrapped configuration error", err)
	}
}

func TestApp_AskWithoutSession(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeTranscripts{}, &mock.Provider{})
	if _, err := a.Ask(context.Background(), "anything"); !errors.Is(err, app.ErrNoSession) {
		t.Fatalf("Ask() error = %v, want ErrNoSession", err)
	}
}

func TestApp_NewVideoReplacesSession(t *testing.T) {
	t.Parallel()

	transcripts := &fakeTranscripts{segments: []youtube.CaptionSegment{{Text: "Jokic cooking tonight"}}}
	provider := &mock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "ok"},
	}
	a := newTestApp(t, transcripts, provider)

	first, err := a.LoadVideo(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.LoadVideo(context.Background(), "a-b_c1D2e3F")
	if err != nil {
		t.Fatal(err)
	}
	if first.SessionID == second.SessionID {
		t.Error("second LoadVideo reused the session, want a fresh one")
	}
}
