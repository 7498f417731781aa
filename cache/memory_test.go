package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInMemorySet_SeenMark(t *testing.T) {
	s := NewInMemorySet()

	if s.Seen("a") {
		t.Error("empty set should not contain a")
	}
	if err := s.Mark("a"); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if !s.Seen("a") {
		t.Error("expected a to be seen after Mark")
	}
	if s.Seen("b") {
		t.Error("b was never marked")
	}
}

func TestInMemorySet_InsertionOrder(t *testing.T) {
	s := NewInMemorySet()
	for _, k := range []string{"c", "a", "b", "a"} {
		_ = s.Mark(k)
	}

	if diff := cmp.Diff([]string{"c", "a", "b"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestInMemorySet_Clear(t *testing.T) {
	s := NewInMemorySet()
	_ = s.Mark("a")
	_ = s.Mark("b")

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty set after Clear, got %d", s.Len())
	}
	if s.Seen("a") {
		t.Error("a should be gone after Clear")
	}
}

func TestInMemorySet_Concurrent(t *testing.T) {
	s := NewInMemorySet()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%10)
			_ = s.Mark(key)
			_ = s.Seen(key)
		}(i)
	}

	wg.Wait()

	if s.Len() != 10 {
		t.Errorf("expected 10 distinct keys, got %d", s.Len())
	}
}
