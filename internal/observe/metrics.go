// Package observe provides application-wide observability primitives for
// Courtside: OpenTelemetry metrics, tracing, and trace-aware structured
// logging.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Courtside metrics.
const meterName = "github.com/MrWong99/courtside"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// RosterFetchDuration tracks full roster refresh latency, including
	// retries.
	RosterFetchDuration metric.Float64Histogram

	// TranscriptFetchDuration tracks caption download and assembly latency.
	TranscriptFetchDuration metric.Float64Histogram

	// ChatDuration tracks LLM chat completion latency.
	ChatDuration metric.Float64Histogram

	// --- Counters ---

	// RosterCacheHits counts roster reads served from a fresh cache file.
	RosterCacheHits metric.Int64Counter

	// RosterCacheMisses counts roster reads that had to go to the network.
	// Use with attribute: attribute.String("reason", ...) — "stale",
	// "missing", or "invalidated".
	RosterCacheMisses metric.Int64Counter

	// CorrectionsApplied counts player-name replacements made in transcripts.
	CorrectionsApplied metric.Int64Counter

	// --- Error counters ---

	// ProviderErrors counts upstream failures. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...)
	ProviderErrors metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// remote HTTP calls and LLM completions.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.RosterFetchDuration, err = m.Float64Histogram("courtside.roster.fetch.duration",
		metric.WithDescription("Latency of roster refreshes from the stats provider."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranscriptFetchDuration, err = m.Float64Histogram("courtside.transcript.fetch.duration",
		metric.WithDescription("Latency of transcript downloads."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ChatDuration, err = m.Float64Histogram("courtside.chat.duration",
		metric.WithDescription("Latency of LLM chat completions."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.RosterCacheHits, err = m.Int64Counter("courtside.roster.cache.hits",
		metric.WithDescription("Roster reads served from a fresh cache file."),
	); err != nil {
		return nil, err
	}
	if met.RosterCacheMisses, err = m.Int64Counter("courtside.roster.cache.misses",
		metric.WithDescription("Roster reads that bypassed the cache, by reason."),
	); err != nil {
		return nil, err
	}
	if met.CorrectionsApplied, err = m.Int64Counter("courtside.corrections.applied",
		metric.WithDescription("Player-name replacements made in transcripts."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.ProviderErrors, err = m.Int64Counter("courtside.provider.errors",
		metric.WithDescription("Total upstream errors by provider and kind."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCacheMiss records a roster cache miss with its reason ("stale",
// "missing", or "invalidated").
func (m *Metrics) RecordCacheMiss(ctx context.Context, reason string) {
	m.RosterCacheMisses.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)),
	)
}

// RecordProviderError records an upstream failure by provider and kind.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
		),
	)
}
