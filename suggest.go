package autoxliff

import (
	"context"
	"strings"

	"github.com/ZaguanLabs/autoxliff/catalog"
)

const defaultBatchSize = 50

// SuggestResult reports the outcome of Suggest.
type SuggestResult struct {
	Pending     int               // Units whose target still equals the source
	Updated     int               // Units written back
	Suggestions map[string]string // Suggested target by unit id
}

// SuggestOption configures Suggest.
type SuggestOption func(*suggestConfig)

type suggestConfig struct {
	batchSize int
	dryRun    bool
	context   string
}

// WithBatchSize limits how many texts are sent to the suggester at once.
func WithBatchSize(n int) SuggestOption {
	return func(c *suggestConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithDryRun collects suggestions without updating the catalog.
func WithDryRun(dryRun bool) SuggestOption {
	return func(c *suggestConfig) {
		c.dryRun = dryRun
	}
}

// WithSuggestContext passes a description of the application to the suggester.
func WithSuggestContext(text string) SuggestOption {
	return func(c *suggestConfig) {
		c.context = text
	}
}

// Suggest asks s for targets of every singular unit in cat whose target is
// still the placeholder copy of its source, and writes them back once per
// batch. Catalogs in the source language are left alone.
func Suggest(ctx context.Context, cat *catalog.Catalog, s Suggester, sourceLang string, opts ...SuggestOption) (*SuggestResult, error) {
	cfg := suggestConfig{batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := &SuggestResult{Suggestions: make(map[string]string)}
	if sameBaseLanguage(cat.Locale(), sourceLang) {
		return result, nil
	}

	var pending []catalog.Unit
	for _, u := range cat.Units() {
		if !u.IsPlural() && u.Source != "" && u.Target == u.Source {
			pending = append(pending, u)
		}
	}
	result.Pending = len(pending)

	for start := 0; start < len(pending); start += cfg.batchSize {
		end := min(start+cfg.batchSize, len(pending))
		batch := pending[start:end]

		req := SuggestRequest{
			Texts:      make([]string, len(batch)),
			IDs:        make([]string, len(batch)),
			SourceLang: sourceLang,
			TargetLang: cat.Locale(),
			Context:    cfg.context,
		}
		for i, u := range batch {
			req.Texts[i] = u.Source
			req.IDs[i] = u.ID
		}

		targets, err := s.Suggest(ctx, req)
		if err != nil {
			return result, err
		}
		if len(targets) != len(batch) {
			return result, &CountMismatchError{Expected: len(batch), Got: len(targets)}
		}

		var updates []catalog.Unit
		for i, u := range batch {
			target := targets[i]
			if target == "" || target == u.Source {
				continue
			}
			result.Suggestions[u.ID] = target
			updates = append(updates, catalog.Unit{ID: u.ID, Source: u.Source, Target: target})
		}
		if cfg.dryRun || len(updates) == 0 {
			continue
		}
		n, err := cat.UpdateUnits(updates)
		if err != nil {
			return result, wrapIO(err)
		}
		result.Updated += n
	}

	return result, nil
}

// sameBaseLanguage compares the language part of two locales ("de_CH" and
// "de" match).
func sameBaseLanguage(a, b string) bool {
	ta, errA := ParseLocale(a)
	tb, errB := ParseLocale(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	ba, _ := ta.Base()
	bb, _ := tb.Base()
	return ba == bb
}
