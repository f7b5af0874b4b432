package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 2 * time.Second
)

// RetryPolicy runs an operation up to MaxAttempts times with a fixed pause
// between attempts. The pause blocks the calling goroutine.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration

	// Retryable decides whether a failed attempt is worth repeating.
	// Defaults to IsTransient.
	Retryable func(error) bool

	// Sleep waits between attempts; tests swap it out to avoid real delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns three attempts two seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     DefaultBackoff,
	}
}

// Do calls op until it succeeds, returns a non-retryable error, or the
// attempts run out. Exhaustion is reported as ErrUnavailable wrapping the
// last failure, so callers can tell it apart from a terminal answer.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, p.Backoff); err != nil {
				return err
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		slog.Warn("catalog request failed", "attempt", attempt, "max_attempts", attempts, "error", lastErr)
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrUnavailable, attempts, lastErr)
}

// IsTransient reports whether err is a connectivity failure or a provider
// response that a later attempt could turn into a success.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidISBN) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
