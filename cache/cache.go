// Package cache provides the run-scoped memo of translation units that were
// already handled by the auto-creation flow.
package cache

// SeenSet records dedup keys. It is only an optimization: losing entries
// causes redundant, idempotent catalog checks and nothing else.
type SeenSet interface {
	// Seen reports whether key was marked before.
	Seen(key string) bool

	// Mark records key.
	Mark(key string) error
}

// KeyLister is implemented by sets that can enumerate their keys.
type KeyLister interface {
	Keys() []string
}
