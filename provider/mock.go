package provider

import (
	"context"
	"fmt"
)

// MockProvider is a Suggester for tests.
type MockProvider struct {
	Suggestions map[string]string // Target by source text
	Err         error             // Returned by every call when set
	CallCount   int
	LastRequest *SuggestRequest
}

// NewMockProvider creates a mock with a few German suggestions.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Suggestions: map[string]string{
			"Welcome back":       "Willkommen zurück",
			"Checkout":           "Zur Kasse",
			"Your cart is empty": "Ihr Warenkorb ist leer",
		},
	}
}

// Suggest returns the mapped target, or the source in brackets.
func (m *MockProvider) Suggest(ctx context.Context, req SuggestRequest) ([]string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if target, ok := m.Suggestions[text]; ok {
			results[i] = target
		} else {
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}
	return results, nil
}

// Reset clears the call count and last request.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

var _ Suggester = (*MockProvider)(nil)
