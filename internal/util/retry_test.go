package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   10 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	result := Retry(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return nil
	})

	if result.LastError != nil {
		t.Errorf("unexpected error: %v", result.LastError)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	result := Retry(context.Background(), fastRetryConfig(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if result.LastError != nil {
		t.Errorf("unexpected error: %v", result.LastError)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts recorded, got %d", result.Attempts)
	}
}

func TestRetry_ExhaustsRetries(t *testing.T) {
	boom := errors.New("boom")
	result := Retry(context.Background(), fastRetryConfig(2), func() error {
		return boom
	})

	if result.LastError == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(result.LastError, ErrMaxRetriesExceeded) {
		t.Errorf("expected ErrMaxRetriesExceeded, got %v", result.LastError)
	}
	if !errors.Is(result.LastError, boom) {
		t.Errorf("expected original error to be joined, got %v", result.LastError)
	}
	// Initial attempt + 2 retries
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", result.Attempts)
	}
}

func TestRetry_NonRetryableStopsEarly(t *testing.T) {
	fatal := errors.New("fatal")
	cfg := fastRetryConfig(5)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, fatal) }

	calls := 0
	result := Retry(context.Background(), cfg, func() error {
		calls++
		return fatal
	})

	if calls != 1 {
		t.Errorf("expected 1 call for non-retryable error, got %d", calls)
	}
	if !errors.Is(result.LastError, fatal) {
		t.Errorf("expected fatal error, got %v", result.LastError)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &RetryConfig{
		MaxRetries: -1, // unlimited; only cancellation can stop it
		BaseDelay:  time.Second,
		Multiplier: 2.0,
	}

	result := Retry(ctx, cfg, func() error {
		return errors.New("always fails")
	})

	if !errors.Is(result.LastError, ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", result.LastError)
	}
}

func TestRetryWithValue(t *testing.T) {
	calls := 0
	val, result := RetryWithValue(context.Background(), fastRetryConfig(3), func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	if result.LastError != nil {
		t.Errorf("unexpected error: %v", result.LastError)
	}
	if val != 42 {
		t.Errorf("expected 42, got %d", val)
	}
}

func TestCalculateDelay_Clamped(t *testing.T) {
	cfg := &RetryConfig{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   time.Second,
		Multiplier: 10.0,
	}

	d := calculateDelay(cfg, 5)
	if d > time.Second {
		t.Errorf("delay %v exceeds max delay", d)
	}
}
