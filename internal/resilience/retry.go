// Package resilience provides the retry and circuit-breaker primitives that
// protect Courtside's outbound calls to the NBA stats endpoint.
//
// [Retry] implements bounded attempts with exponential backoff and jitter.
// [Breaker] is a three-state circuit breaker (closed → open → half-open) that
// stops hammering an endpoint which has failed repeatedly, letting the caller
// fall back to cached data immediately instead of burning its retry budget.
//
// All types are safe for concurrent use.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// RetryConfig holds the tuning knobs for [Retry].
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// InitialBackoff is the delay before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration

	// Multiplier grows the backoff after each failed attempt.
	Multiplier float64

	// JitterFraction randomises each delay by ±fraction to avoid
	// synchronised retries. 0 disables jitter.
	JitterFraction float64
}

// DefaultRetryConfig mirrors the stats endpoint's tolerances: five attempts
// with a 500 ms initial backoff doubling up to 8 s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// Classifier reports whether an error is worth retrying. Returning false
// stops the retry loop immediately and surfaces the error as-is.
type Classifier func(error) bool

// Retry runs fn up to cfg.MaxAttempts times, sleeping with exponential
// backoff between failures. classify decides which errors are transient;
// when nil, every error except context cancellation and [ErrBreakerOpen]
// is retried.
//
// Context cancellation aborts the backoff sleep and returns ctx.Err().
// When all attempts fail, the last error is returned wrapped with an
// attempt count.
func Retry(ctx context.Context, cfg RetryConfig, classify Classifier, fn func(context.Context) error) error {
	if classify == nil {
		classify = defaultClassifier
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !classify(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		sleep := backoff + jitter(backoff, cfg.JitterFraction)
		if sleep > cfg.MaxBackoff {
			sleep = cfg.MaxBackoff
		}
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return fmt.Errorf("resilience: %d attempts exhausted: %w", attempts, lastErr)
}

// defaultClassifier retries everything except cancellation and an open
// breaker — both mean further attempts cannot possibly help.
func defaultClassifier(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !errors.Is(err, ErrBreakerOpen)
}

// jitter returns a random duration in [-fraction*d, +fraction*d].
func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return 0
	}
	spread := float64(d) * fraction
	return time.Duration((rand.Float64() - 0.5) * 2 * spread)
}
