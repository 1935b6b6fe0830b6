package util

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig holds configuration for retry with exponential backoff
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (0 = no retries)
	MaxRetries int
	// BaseDelay is the initial delay between retries
	BaseDelay time.Duration
	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration
	// Multiplier is the factor by which delay increases
	Multiplier float64
	// Jitter adds randomness to delays to prevent thundering herd (0.0 - 1.0)
	Jitter float64
	// RetryIf is an optional function to determine if an error is retryable
	RetryIf func(error) bool
}

// DefaultRetryConfig returns sensible defaults for retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}
}

// ErrMaxRetriesExceeded is returned joined with the last error when the
// retry budget is exhausted.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

// Retry executes fn with exponential backoff until it succeeds, the retry
// budget is exhausted, or the context is canceled.
func Retry(ctx context.Context, config *RetryConfig, fn func() error) error {
	_, err := RetryWithValue(ctx, config, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryWithValue executes a value-returning fn with exponential backoff.
func RetryWithValue[T any](ctx context.Context, config *RetryConfig, fn func() (T, error)) (T, error) {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var zero T
	attempt := 0
	for {
		attempt++

		val, err := fn()
		if err == nil {
			return val, nil
		}

		if config.RetryIf != nil && !config.RetryIf(err) {
			return zero, err
		}

		if attempt > config.MaxRetries {
			return zero, errors.Join(ErrMaxRetriesExceeded, err)
		}

		select {
		case <-ctx.Done():
			return zero, errors.Join(ctx.Err(), err)
		case <-time.After(calculateDelay(config, attempt)):
		}
	}
}

// calculateDelay computes the backoff delay for the given attempt number
func calculateDelay(config *RetryConfig, attempt int) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt-1))

	if config.Jitter > 0 {
		jitter := delay * config.Jitter * (rand.Float64()*2 - 1)
		delay += jitter
	}

	if max := float64(config.MaxDelay); config.MaxDelay > 0 && delay > max {
		delay = max
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}
