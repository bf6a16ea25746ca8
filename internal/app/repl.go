package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrWong99/courtside/internal/chat"
)

const replHelp = `Commands:
  url <link>       load a YouTube video and start a chat about it
  roster           show the loaded roster size
  refresh          force a roster refresh from the stats provider
  transcript       print the corrected transcript of the loaded video
  prompts          list the canned fantasy questions
  prompt <n>       ask canned question number n
  ask <question>   ask a free-form question about the video
  help             show this help
  quit             exit`

// REPL drives an [App] through a line-oriented command loop. It is the only
// user-facing surface; all state lives in the App.
type REPL struct {
	app *App
	in  io.Reader
	out io.Writer
}

// NewREPL creates a REPL reading commands from in and writing results to out.
func NewREPL(app *App, in io.Reader, out io.Writer) *REPL {
	return &REPL{app: app, in: in, out: out}
}

// Run processes commands until EOF, the quit command, or ctx cancellation.
// Command errors are printed and the loop continues; only I/O failures and
// cancellation end the run.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintf(r.out, "courtside — YouTube basketball transcript analyzer (season %s)\n", r.app.Season())
	fmt.Fprintln(r.out, `Type "help" for commands.`)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("app: read input: %w", err)
			}
			return nil // EOF
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(r.out, replHelp)
		case "url":
			r.cmdURL(ctx, arg)
		case "roster":
			fmt.Fprintf(r.out, "%d players loaded\n", r.app.RosterSize())
		case "refresh":
			n := r.app.RefreshRoster(ctx, true)
			fmt.Fprintf(r.out, "roster refreshed, %d players\n", n)
		case "transcript":
			r.cmdTranscript()
		case "prompts":
			for i, p := range chat.Prompts() {
				fmt.Fprintf(r.out, "  %d. %s\n", i+1, p)
			}
		case "prompt":
			r.cmdPrompt(ctx, arg)
		case "ask":
			r.cmdAsk(ctx, arg)
		default:
			fmt.Fprintf(r.out, "unknown command %q, type \"help\"\n", cmd)
		}
	}
}

func (r *REPL) cmdURL(ctx context.Context, arg string) {
	if arg == "" {
		fmt.Fprintln(r.out, "usage: url <link>")
		return
	}
	result, err := r.app.LoadVideo(ctx, arg)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "loaded video %s (%d transcript characters)\n", result.VideoID, len(result.Transcript))
	for _, c := range result.Corrections {
		fmt.Fprintf(r.out, "  corrected %q -> %q (score %d)\n", c.Original, c.Corrected, c.Score)
	}
	if len(result.Corrections) == 0 {
		fmt.Fprintln(r.out, "  no player names corrected")
	}
}

func (r *REPL) cmdTranscript() {
	t := r.app.Transcript()
	if t == "" {
		fmt.Fprintln(r.out, "no video loaded")
		return
	}
	fmt.Fprintln(r.out, t)
}

func (r *REPL) cmdPrompt(ctx context.Context, arg string) {
	prompts := chat.Prompts()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(prompts) {
		fmt.Fprintf(r.out, "usage: prompt <1-%d>\n", len(prompts))
		return
	}
	r.cmdAsk(ctx, prompts[n-1])
}

func (r *REPL) cmdAsk(ctx context.Context, question string) {
	if question == "" {
		fmt.Fprintln(r.out, "usage: ask <question>")
		return
	}
	answer, err := r.app.Ask(ctx, question)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, answer)
}
