// Package config provides the configuration schema, loader, and provider
// registry for Courtside.
package config

import "time"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Courtside.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Roster     RosterConfig     `yaml:"roster"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Chat       ChatConfig       `yaml:"chat"`
}

// ServerConfig holds logging and telemetry settings.
type ServerConfig struct {
	// MetricsAddr is the TCP address the Prometheus /metrics endpoint listens
	// on (e.g., ":9090"). Empty disables the metrics server.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// RosterConfig holds settings for the active-player roster.
type RosterConfig struct {
	// CacheFile is the path of the roster cache file.
	CacheFile string `yaml:"cache_file"`

	// Season overrides the season derived from the current date
	// (e.g., "2025-26"). Leave empty to auto-detect.
	Season string `yaml:"season"`

	// BaseURL overrides the stats endpoint base URL. Leave empty for the
	// public endpoint.
	BaseURL string `yaml:"base_url"`

	// CacheTTL overrides the 24 hour cache freshness window.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// TranscriptConfig holds settings for transcript download and correction.
type TranscriptConfig struct {
	// Language is the caption language code requested from the video
	// platform (default "en").
	Language string `yaml:"language"`

	// CorrectionThreshold is the minimum similarity score (0-100) required
	// to replace a transcript token with a roster name. Zero means the
	// built-in default of 80.
	CorrectionThreshold int `yaml:"correction_threshold"`
}

// ChatConfig holds settings for the LLM chat layer.
type ChatConfig struct {
	// Provider selects and configures the LLM backend.
	Provider ProviderEntry `yaml:"provider"`

	// Temperature controls output randomness for all chat turns.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens caps completion length per turn. Zero means the provider
	// default.
	MaxTokens int `yaml:"max_tokens"`
}

// ProviderEntry is the common configuration block for LLM providers.
// The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "gemini",
	// "openai").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	// Supports ${ENV_VAR} expansion, e.g. "${GEMINI_API_KEY}".
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider
	// (e.g., "gemini-2.0-flash", "gpt-4o").
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`
}
