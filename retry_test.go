package autoxliff

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(max int) RetryConfig {
	return RetryConfig{MaxRetries: max, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		failures  int
		retryable bool
		wantErr   bool
		wantCalls int
	}{
		{"first try", 3, 0, true, false, 1},
		{"recovers", 3, 2, true, false, 3},
		{"not retryable", 3, 5, false, true, 1},
		{"gives up", 2, 5, true, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := WithRetry(context.Background(), fastRetry(tt.max), func() (string, error) {
				calls++
				if calls <= tt.failures {
					return "", &ProviderError{Message: "flaky", Retryable: tt.retryable}
				}
				return "ok", nil
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != "ok" {
				t.Errorf("result = %q, want ok", got)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, cfg, func() (string, error) {
		return "", &ProviderError{Message: "rate limited", Retryable: true}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable provider error", &ProviderError{Retryable: true}, true},
		{"non-retryable provider error", &ProviderError{Retryable: false}, false},
		{"generic error", errors.New("some error"), false},
		{"context canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

type flakySuggester struct {
	failCount int
	callCount int
}

func (s *flakySuggester) Suggest(ctx context.Context, req SuggestRequest) ([]string, error) {
	s.callCount++
	if s.callCount <= s.failCount {
		return nil, &ProviderError{Message: "temporary failure", Retryable: true}
	}
	out := make([]string, len(req.Texts))
	for i := range req.Texts {
		out[i] = "suggested"
	}
	return out, nil
}

func TestRetryableSuggester(t *testing.T) {
	inner := &flakySuggester{failCount: 2}
	s := NewRetryableSuggester(inner, fastRetry(3))

	result, err := s.Suggest(context.Background(), SuggestRequest{Texts: []string{"hello"}, TargetLang: "de"})
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if len(result) != 1 || result[0] != "suggested" {
		t.Errorf("Unexpected result: %v", result)
	}
	if inner.callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.callCount)
	}
}

func TestWithRetry_OnRetry(t *testing.T) {
	var attempts []int
	cfg := fastRetry(2)
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		attempts = append(attempts, attempt)
		if delay <= 0 {
			t.Errorf("attempt %d: delay = %v", attempt, delay)
		}
	}

	_, err := WithRetry(context.Background(), cfg, func() (int, error) {
		return 0, &ProviderError{Message: "busy", Retryable: true}
	})
	if err == nil {
		t.Fatal("expected error after retries are spent")
	}
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("attempts = %v, want [1 2]", attempts)
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second} {
		if got := cfg.backoff(attempt); got != want {
			t.Errorf("backoff(%d) = %v, want %v", attempt, got, want)
		}
	}
	if got := cfg.backoff(70); got != 5*time.Second {
		t.Errorf("backoff(70) = %v, want cap", got)
	}
}
