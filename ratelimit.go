package autoxliff

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures how often a suggester may be called.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute (default 60)
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a token bucket limiter from cfg.
func NewRateLimiter(cfg RateLimitConfig) *rate.Limiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// RateLimitedSuggester wraps a Suggester with rate limiting.
type RateLimitedSuggester struct {
	suggester Suggester
	limiter   *rate.Limiter
}

// NewRateLimitedSuggester creates a rate-limited suggester.
func NewRateLimitedSuggester(s Suggester, cfg RateLimitConfig) *RateLimitedSuggester {
	return &RateLimitedSuggester{
		suggester: s,
		limiter:   NewRateLimiter(cfg),
	}
}

// Suggest waits for the limiter and calls the wrapped suggester.
func (r *RateLimitedSuggester) Suggest(ctx context.Context, req SuggestRequest) ([]string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}
	return r.suggester.Suggest(ctx, req)
}

// Limiter returns the underlying limiter for inspection.
func (r *RateLimitedSuggester) Limiter() *rate.Limiter {
	return r.limiter
}

var _ Suggester = (*RateLimitedSuggester)(nil)
