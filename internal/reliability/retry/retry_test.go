package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func fastConfig() *Config {
	return &Config{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	attempts := 0
	result, err := Do(context.Background(), fastConfig(), testLogger(), "lookup", func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if result != "ok" || attempts != 3 {
		t.Errorf("result = %q after %d attempts", result, attempts)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), fastConfig(), testLogger(), "lookup", func(ctx context.Context) (string, error) {
		attempts++
		return "", errors.New("still down")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, fastConfig(), testLogger(), "lookup", func(ctx context.Context) (string, error) {
		t.Error("function must not run with a cancelled context")
		return "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestCalculateBackoffCapped(t *testing.T) {
	cfg := &Config{
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        300 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
	if got := calculateBackoff(0, cfg); got != 100*time.Millisecond {
		t.Errorf("first backoff = %v", got)
	}
	if got := calculateBackoff(5, cfg); got != cfg.MaxBackoff {
		t.Errorf("backoff = %v, want capped at %v", got, cfg.MaxBackoff)
	}
}
