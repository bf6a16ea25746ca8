// Command courtside is an interactive analyzer for YouTube basketball videos:
// it downloads a video's transcript, corrects mangled player names against the
// active league roster, and opens an LLM chat seeded with the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/courtside/internal/app"
	"github.com/MrWong99/courtside/internal/config"
	"github.com/MrWong99/courtside/internal/health"
	"github.com/MrWong99/courtside/internal/observe"
	"github.com/MrWong99/courtside/internal/roster"
	"github.com/MrWong99/courtside/internal/roster/nba"
	"github.com/MrWong99/courtside/internal/youtube"
	"github.com/MrWong99/courtside/pkg/provider/llm"
	"github.com/MrWong99/courtside/pkg/provider/llm/anyllm"
	"github.com/MrWong99/courtside/pkg/provider/llm/openai"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "courtside: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "courtside: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("courtside starting",
		"config", *configPath,
		"log_level", cfg.Server.LogLevel,
		"provider", cfg.Chat.Provider.Name,
		"model", cfg.Chat.Provider.Model,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── LLM provider ──────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	// A provider that cannot be built (usually a missing API key) disables
	// chat only; roster fetching and transcript correction keep working.
	provider, err := reg.CreateLLM(cfg.Chat.Provider)
	if err != nil {
		slog.Warn("chat provider unavailable, continuing with chat disabled",
			"name", cfg.Chat.Provider.Name, "err", err)
		provider = llm.Unconfigured(err)
	} else {
		slog.Info("provider created", "kind", "llm", "name", cfg.Chat.Provider.Name)
	}

	// ── Application wiring ────────────────────────────────────────────────────
	application, err := buildApp(cfg, provider)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)

	// Prometheus /metrics endpoint plus health probes, optional.
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		health.New(health.RosterCache(cfg.Roster.CacheFile)).Register(mux)
		srv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux}

		g.Go(func() error {
			slog.Info("metrics server listening", "addr", cfg.Server.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	// The REPL owns stdin; when it returns the whole process winds down.
	g.Go(func() error {
		defer stop()
		return app.NewREPL(application, os.Stdin, os.Stdout).Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// buildApp constructs the roster fetcher, transcript client, and application
// from cfg.
func buildApp(cfg *config.Config, provider llm.Provider) (*app.App, error) {
	var nbaOpts []nba.Option
	if cfg.Roster.BaseURL != "" {
		nbaOpts = append(nbaOpts, nba.WithBaseURL(cfg.Roster.BaseURL))
	}

	var fetcherOpts []roster.FetcherOption
	if cfg.Roster.CacheTTL > 0 {
		fetcherOpts = append(fetcherOpts, roster.WithTTL(cfg.Roster.CacheTTL))
	}
	fetcher := roster.NewFetcher(
		nba.NewClient(nbaOpts...),
		roster.NewStore(cfg.Roster.CacheFile),
		fetcherOpts...,
	)

	var ytOpts []youtube.TranscriptOption
	if cfg.Transcript.Language != "" {
		ytOpts = append(ytOpts, youtube.WithLanguage(cfg.Transcript.Language))
	}

	return app.New(app.Options{
		Fetcher:     fetcher,
		Transcripts: youtube.NewTranscriptClient(ytOpts...),
		Provider:    provider,
		Season:      roster.Season(cfg.Roster.Season),
		Threshold:   cfg.Transcript.CorrectionThreshold,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
	})
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in LLM provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the provider
// from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry) {
	// gemini, openai, anthropic, deepseek, mistral, groq, llamacpp and
	// llamafile all share the same pattern: optional APIKey + optional BaseURL.
	for _, providerName := range []string{
		"gemini", "openai", "anthropic",
		"deepseek", "mistral", "groq", "llamacpp", "llamafile",
	} {
		reg.RegisterLLM(providerName, func(entry config.ProviderEntry) (llm.Provider, error) {
			var opts []anyllmlib.Option
			if entry.APIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(providerName, entry.Model, opts...)
		})
	}

	// ollama is a local server; it uses BaseURL for the address, not an API key.
	reg.RegisterLLM("ollama", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.New("ollama", entry.Model, opts...)
	})

	// openai-native talks to the OpenAI API through the official SDK instead
	// of the any-llm gateway.
	reg.RegisterLLM("openai-native", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []openai.Option
		if entry.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(entry.BaseURL))
		}
		return openai.New(entry.APIKey, entry.Model, opts...)
	})

	for _, name := range config.ValidProviderNames {
		slog.Debug("registered provider", "kind", "llm", "name", name)
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
