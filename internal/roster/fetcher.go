package roster

import (
	"context"
	"time"

	"github.com/MrWong99/courtside/internal/observe"
)

// defaultTTL is the cache freshness window. A roster older than this is
// refreshed from the network on the next fetch.
const defaultTTL = 24 * time.Hour

// Fetcher resolves the active roster, preferring a fresh cache over the
// network and degrading to stale data or an empty roster when the stats
// provider is unreachable. Fetch never returns an error: a missing roster
// only degrades correction quality, it must not take down a session.
type Fetcher struct {
	source Source
	store  *Store
	ttl    time.Duration
	now    func() time.Time
}

// FetcherOption configures a [Fetcher].
type FetcherOption func(*Fetcher)

// WithTTL overrides the 24 hour cache freshness window.
func WithTTL(ttl time.Duration) FetcherOption {
	return func(f *Fetcher) { f.ttl = ttl }
}

// WithClock replaces the time source. Used in tests to control freshness.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

// NewFetcher creates a [Fetcher] reading from store and refreshing via
// source.
func NewFetcher(source Source, store *Store, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source: source,
		store:  store,
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchOptions control a single [Fetcher.Fetch] call.
type FetchOptions struct {
	// UseCache permits serving a fresh cache without touching the network.
	// When false the cache is only consulted as a fallback after a failed
	// fetch.
	UseCache bool

	// InvalidateCache skips the freshness check entirely and forces a
	// network fetch. The stale-cache fallback still applies on failure.
	InvalidateCache bool
}

// Fetch returns the active roster for season. Resolution order:
//
//  1. Fresh cache (within the TTL), when opts.UseCache is set and
//     opts.InvalidateCache is not.
//  2. Network fetch via the [Source]; the result is written back to the
//     cache.
//  3. Stale cache contents, whatever their age.
//  4. An empty roster.
//
// Errors along the way are logged and absorbed, never returned.
func (f *Fetcher) Fetch(ctx context.Context, season Season, opts FetchOptions) []PlayerRecord {
	ctx, span := observe.StartSpan(ctx, "roster.fetch")
	defer span.End()

	log := observe.Logger(ctx).With("season", string(season))
	met := observe.DefaultMetrics()

	env, cached := f.store.Load()
	if opts.UseCache && !opts.InvalidateCache && cached {
		if age := env.Age(f.now()); age <= f.ttl {
			met.RosterCacheHits.Add(ctx, 1)
			log.Debug("roster served from cache", "age", age, "players", len(env.Data))
			return env.Data
		}
		met.RecordCacheMiss(ctx, "stale")
	} else if opts.InvalidateCache {
		met.RecordCacheMiss(ctx, "invalidated")
	} else if !cached {
		met.RecordCacheMiss(ctx, "missing")
	}

	start := f.now()
	records, err := f.source.AllPlayers(ctx, season)
	met.RosterFetchDuration.Record(ctx, f.now().Sub(start).Seconds())
	if err == nil {
		if saveErr := f.store.Save(records); saveErr != nil {
			log.Warn("roster fetched but cache write failed", "err", saveErr)
		}
		log.Info("roster refreshed", "players", len(records))
		return records
	}

	met.RecordProviderError(ctx, "nba-stats", "roster")
	if cached {
		log.Warn("roster fetch failed, serving stale cache",
			"err", err, "age", env.Age(f.now()), "players", len(env.Data))
		return env.Data
	}

	log.Error("roster fetch failed and no cache available, corrections disabled", "err", err)
	return []PlayerRecord{}
}
