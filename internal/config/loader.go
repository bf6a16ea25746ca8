package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known LLM provider names. Used by [Validate] to
// warn about unrecognised provider names.
var ValidProviderNames = []string{
	"gemini", "openai", "openai-native", "anthropic", "ollama",
	"deepseek", "mistral", "groq", "llamacpp", "llamafile",
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// ${ENV_VAR} references anywhere in the document are expanded from the
// process environment before decoding; unset variables expand to the empty
// string. Useful in tests where configs are constructed from string
// literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	expanded := os.Expand(string(raw), func(name string) string {
		return os.Getenv(name)
	})

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// providerKeyEnvVars maps provider names to the conventional environment
// variable holding their API key, consulted when api_key is left unset.
var providerKeyEnvVars = map[string]string{
	"gemini":        "GEMINI_API_KEY",
	"openai":        "OPENAI_API_KEY",
	"openai-native": "OPENAI_API_KEY",
	"anthropic":     "ANTHROPIC_API_KEY",
	"deepseek":      "DEEPSEEK_API_KEY",
	"mistral":       "MISTRAL_API_KEY",
	"groq":          "GROQ_API_KEY",
}

// applyDefaults fills in the optional fields most deployments never set.
func applyDefaults(cfg *Config) {
	if cfg.Roster.CacheFile == "" {
		cfg.Roster.CacheFile = "players_cache.json"
	}
	if cfg.Transcript.Language == "" {
		cfg.Transcript.Language = "en"
	}
	if cfg.Chat.Provider.APIKey == "" {
		if envVar, ok := providerKeyEnvVars[cfg.Chat.Provider.Name]; ok {
			cfg.Chat.Provider.APIKey = os.Getenv(envVar)
		}
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Roster
	if cfg.Roster.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("roster.cache_ttl %v must not be negative", cfg.Roster.CacheTTL))
	}
	if s := cfg.Roster.Season; s != "" && !validSeasonLabel(s) {
		errs = append(errs, fmt.Errorf("roster.season %q is invalid; expected the form 2025-26", s))
	}

	// Transcript
	if t := cfg.Transcript.CorrectionThreshold; t < 0 || t > 100 {
		errs = append(errs, fmt.Errorf("transcript.correction_threshold %d is out of range [0, 100]", t))
	}

	// Chat provider
	if cfg.Chat.Provider.Name == "" {
		errs = append(errs, errors.New("chat.provider.name is required"))
	} else {
		validateProviderName(cfg.Chat.Provider.Name)
	}
	if cfg.Chat.Provider.Model == "" {
		errs = append(errs, errors.New("chat.provider.model is required"))
	}
	if cfg.Chat.Provider.APIKey == "" {
		slog.Warn("chat.provider.api_key is empty; relying on the provider's environment variable")
	}
	if tp := cfg.Chat.Temperature; tp < 0 || tp > 2 {
		errs = append(errs, fmt.Errorf("chat.temperature %.2f is out of range [0.0, 2.0]", tp))
	}
	if cfg.Chat.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("chat.max_tokens %d must not be negative", cfg.Chat.MaxTokens))
	}

	return errors.Join(errs...)
}

// validSeasonLabel reports whether s has the "YYYY-YY" season shape.
func validSeasonLabel(s string) bool {
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// validateProviderName logs a warning if name is not found in
// [ValidProviderNames].
func validateProviderName(name string) {
	if slices.Contains(ValidProviderNames, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"name", name,
		"known", ValidProviderNames,
	)
}
