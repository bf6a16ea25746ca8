package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrBreakerOpen is returned by [Breaker.Execute] while the breaker is open
// and its cooldown has not yet elapsed.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// BreakerState is the operating mode of a [Breaker].
type BreakerState int

const (
	// BreakerClosed forwards all calls; consecutive failures are counted.
	BreakerClosed BreakerState = iota

	// BreakerOpen rejects calls with [ErrBreakerOpen] until the cooldown
	// elapses.
	BreakerOpen

	// BreakerHalfOpen lets a single probe call through; its outcome decides
	// whether the breaker closes again or re-opens.
	BreakerHalfOpen
)

// String returns the human-readable state name.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds the tuning knobs for a [Breaker]. Zero-value fields
// fall back to defaults.
type BreakerConfig struct {
	// Name labels the breaker in log output.
	Name string

	// Threshold is the number of consecutive failures that trips the
	// breaker. Default: 5.
	Threshold int

	// Cooldown is how long the breaker stays open before allowing a probe.
	// Default: 30s.
	Cooldown time.Duration
}

// Breaker is a three-state circuit breaker. A tripped breaker lets callers
// skip the doomed network call and go straight to their fallback path.
// Safe for concurrent use.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
}

// NewBreaker creates a [Breaker] from cfg, applying defaults for zero fields.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:      cfg.Name,
		threshold: cfg.Threshold,
		cooldown:  cfg.Cooldown,
		state:     BreakerClosed,
	}
}

// Execute runs fn unless the breaker is open. In the half-open state exactly
// one probe is admitted: on success the breaker closes, on failure it
// re-opens for another cooldown period.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

// admit decides whether a call may proceed, handling the open → half-open
// transition.
func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if time.Since(b.openedAt) < b.cooldown {
			return ErrBreakerOpen
		}
		b.state = BreakerHalfOpen
		slog.Info("circuit breaker probing", "name", b.name)
		return nil
	case BreakerHalfOpen:
		// A probe is already in flight (or was just consumed).
		return ErrBreakerOpen
	default:
		return nil
	}
}

// onFailure records a failed call. Must be called with b.mu held.
func (b *Breaker) onFailure() {
	if b.state == BreakerHalfOpen {
		b.state = BreakerOpen
		b.openedAt = time.Now()
		slog.Warn("circuit breaker re-opened after failed probe", "name", b.name)
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.state = BreakerOpen
		b.openedAt = time.Now()
		slog.Warn("circuit breaker opened",
			"name", b.name, "consecutive_failures", b.failures)
	}
}

// onSuccess records a successful call. Must be called with b.mu held.
func (b *Breaker) onSuccess() {
	if b.state == BreakerHalfOpen {
		slog.Info("circuit breaker closed after successful probe", "name", b.name)
	}
	b.state = BreakerClosed
	b.failures = 0
}

// State returns the breaker's current state. An open breaker whose cooldown
// has elapsed reports half-open; the actual transition happens on the next
// Execute.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && time.Since(b.openedAt) >= b.cooldown {
		return BreakerHalfOpen
	}
	return b.state
}

// Reset forces the breaker back to closed, clearing the failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BreakerClosed
	b.failures = 0
}
