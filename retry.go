package autoxliff

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls how suggestion requests are retried.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// backoff returns the wait before retry number attempt (zero based).
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := c.BaseDelay << attempt
	if delay <= 0 || delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry calls fn until it succeeds, fails with an error IsRetryable
// rejects, or cfg.MaxRetries retries are spent.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || attempt >= cfg.MaxRetries {
			return zero, err
		}

		delay := cfg.backoff(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRetryable reports whether err is a *ProviderError marked retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// RetryableSuggester wraps a Suggester with retry logic.
type RetryableSuggester struct {
	suggester Suggester
	config    RetryConfig
}

// NewRetryableSuggester creates a suggester that retries transient failures.
func NewRetryableSuggester(s Suggester, cfg RetryConfig) *RetryableSuggester {
	return &RetryableSuggester{
		suggester: s,
		config:    cfg,
	}
}

// Suggest implements Suggester with retry logic.
func (r *RetryableSuggester) Suggest(ctx context.Context, req SuggestRequest) ([]string, error) {
	return WithRetry(ctx, r.config, func() ([]string, error) {
		return r.suggester.Suggest(ctx, req)
	})
}

var _ Suggester = (*RetryableSuggester)(nil)
