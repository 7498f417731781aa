package cache

import "sync"

// InMemorySet is a thread-safe, insertion-ordered set of keys. It never
// evicts; entries live until Clear or process exit.
type InMemorySet struct {
	mu    sync.RWMutex
	index map[string]struct{}
	keys  []string
}

// NewInMemorySet creates an empty set.
func NewInMemorySet() *InMemorySet {
	return &InMemorySet{
		index: make(map[string]struct{}),
	}
}

// Seen reports whether key was marked.
func (s *InMemorySet) Seen(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[key]
	return ok
}

// Mark records key. Marking a key twice keeps its original position.
func (s *InMemorySet) Mark(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[key]; ok {
		return nil
	}
	s.index[key] = struct{}{}
	s.keys = append(s.keys, key)
	return nil
}

// Len returns the number of keys.
func (s *InMemorySet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *InMemorySet) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.keys...)
}

// Clear removes all keys.
func (s *InMemorySet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]struct{})
	s.keys = nil
}

var (
	_ SeenSet   = (*InMemorySet)(nil)
	_ KeyLister = (*InMemorySet)(nil)
)
