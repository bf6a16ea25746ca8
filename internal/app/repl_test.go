package app_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/MrWong99/courtside/internal/app"
	"github.com/MrWong99/courtside/internal/youtube"
	"github.com/MrWong99/courtside/pkg/provider/llm"
	"github.com/MrWong99/courtside/pkg/provider/llm/mock"
)

func runREPL(t *testing.T, a *app.App, input string) string {
	t.Helper()
	var out bytes.Buffer
	r := app.NewREPL(a, strings.NewReader(input), &out)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestREPL_QuitAndEOF(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeTranscripts{}, &mock.Provider{})

	out := runREPL(t, a, "quit\n")
	if !strings.Contains(out, "courtside") {
		t.Errorf("missing banner in output: %q", out)
	}

	// EOF without quit must also end cleanly.
	runREPL(t, a, "")
}

func TestREPL_HelpAndUnknownCommand(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeTranscripts{}, &mock.Provider{})
	out := runREPL(t, a, "help\nblorp\nquit\n")

	if !strings.Contains(out, "url <link>") {
		t.Errorf("help output missing commands: %q", out)
	}
	if !strings.Contains(out, `unknown command "blorp"`) {
		t.Errorf("missing unknown-command message: %q", out)
	}
}

func TestREPL_FullSession(t *testing.T) {
	t.Parallel()

	transcripts := &fakeTranscripts{segments: []youtube.CaptionSegment{
		{Text: "Lebron with the dunk"},
	}}
	provider := &mock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "Strong waiver options tonight."},
	}
	a := newTestApp(t, transcripts, provider)

	out := runREPL(t, a, strings.Join([]string{
		"url https://youtu.be/dQw4w9WgXcQ",
		"roster",
		"transcript",
		"ask who stood out?",
		"prompt 1",
		"quit",
	}, "\n")+"\n")

	if !strings.Contains(out, "loaded video dQw4w9WgXcQ") {
		t.Errorf("missing load confirmation: %q", out)
	}
	if !strings.Contains(out, `corrected "Lebron" -> "LeBron James"`) {
		t.Errorf("missing correction report: %q", out)
	}
	if !strings.Contains(out, "2 players loaded") {
		t.Errorf("missing roster size: %q", out)
	}
	if !strings.Contains(out, "LeBron James with the dunk") {
		t.Errorf("missing transcript output: %q", out)
	}
	if !strings.Contains(out, "Strong waiver options tonight.") {
		t.Errorf("missing chat answer: %q", out)
	}
	// The canned prompt goes through the same chat path.
	if got := len(provider.CompleteCalls); got != 2 {
		t.Errorf("Complete calls = %d, want 2 (ask + prompt)", got)
	}
}

func TestREPL_AskWithoutVideo(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeTranscripts{}, &mock.Provider{})
	out := runREPL(t, a, "ask anything\nquit\n")
	if !strings.Contains(out, "no active chat session") {
		t.Errorf("missing no-session error: %q", out)
	}
}

func TestREPL_PromptValidation(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeTranscripts{}, &mock.Provider{})
	out := runREPL(t, a, "prompt 99\nprompt x\nquit\n")
	if strings.Count(out, "usage: prompt") != 2 {
		t.Errorf("expected two usage messages, got: %q", out)
	}
}
