package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrWong99/courtside/internal/resilience"
)

// fastRetry returns a config with negligible backoff so tests run quickly.
func fastRetry(attempts int) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	err := resilience.Retry(context.Background(), fastRetry(3), nil, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_RecoversAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := resilience.Retry(context.Background(), fastRetry(5), nil, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("still down")
	calls := 0
	err := resilience.Retry(context.Background(), fastRetry(4), nil, func(context.Context) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Retry() error = %v, want wrapped %v", err, sentinel)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestRetry_PermanentErrorStopsImmediately(t *testing.T) {
	t.Parallel()

	permanent := errors.New("bad request")
	classify := func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := resilience.Retry(context.Background(), fastRetry(5), classify, func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Retry() error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries on permanent error)", calls)
	}
}

func TestRetry_OpenBreakerNotRetried(t *testing.T) {
	t.Parallel()

	calls := 0
	err := resilience.Retry(context.Background(), fastRetry(5), nil, func(context.Context) error {
		calls++
		return resilience.ErrBreakerOpen
	})
	if !errors.Is(err, resilience.ErrBreakerOpen) {
		t.Fatalf("Retry() error = %v, want ErrBreakerOpen", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (open breaker is permanent)", calls)
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cfg := resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Minute, // never actually slept through
		MaxBackoff:     time.Minute,
		Multiplier:     2.0,
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := resilience.Retry(ctx, cfg, nil, func(context.Context) error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry() error = %v, want context.Canceled", err)
	}
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	_ = resilience.Retry(context.Background(), resilience.RetryConfig{}, nil, func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
