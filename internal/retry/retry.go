// Package retry implements bounded exponential backoff for transient
// failures when talking to remote APIs.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Sentinel errors callers can wrap to mark a failure permanent.
var (
	ErrAuthRequired = errors.New("authorization required")
	ErrInvalidInput = errors.New("invalid input")
)

// Config tunes the backoff schedule.
type Config struct {
	// MaxRetries is how many times a failed attempt is repeated.
	MaxRetries int
	// InitialBackoff is the delay after the first failure.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration
	// Multiplier grows the delay after each failure.
	Multiplier float64
	// JitterFraction spreads each delay by +/- this fraction of itself.
	JitterFraction float64
}

// DefaultConfig returns the schedule used when callers don't tune one:
// three retries, 1s initial delay doubling up to 30s, 20% jitter.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// ErrorClassifier reports whether an error is worth retrying.
type ErrorClassifier func(error) bool

// IsRetryable is the default classifier. Context cancellation and the
// permanent sentinels are never retried; everything else is.
func IsRetryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrAuthRequired), errors.Is(err, ErrInvalidInput):
		return false
	}
	return true
}

// Do runs fn, repeating transient failures on the configured schedule.
// Permanent errors (per the classifier) are returned as-is on the first
// occurrence. When the attempt budget runs out, the last error is wrapped
// in a *RetryableError so callers can tell exhaustion from a plain failure.
func Do(ctx context.Context, cfg Config, classifier ErrorClassifier, fn func(context.Context) error) error {
	if classifier == nil {
		classifier = IsRetryable
	}

	delay := cfg.InitialBackoff
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !classifier(err) {
			return err
		}
		if attempt == cfg.MaxRetries {
			return &RetryableError{Err: err, Retries: cfg.MaxRetries}
		}

		select {
		case <-time.After(withJitter(delay, cfg.JitterFraction, cfg.MaxBackoff)):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxBackoff {
			delay = cfg.MaxBackoff
		}
	}
}

// withJitter spreads d by +/- fraction of itself and caps the result.
func withJitter(d time.Duration, fraction float64, max time.Duration) time.Duration {
	if fraction > 0 {
		spread := float64(d) * fraction
		d += time.Duration((rand.Float64()*2 - 1) * spread)
	}
	if d > max {
		d = max
	}
	return d
}

// RetryableError reports that an operation kept failing for the whole
// retry budget. The final attempt's error is available via Unwrap.
type RetryableError struct {
	Err     error
	Retries int
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("failed after %d retries: %v", e.Retries, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }
