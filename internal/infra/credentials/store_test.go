package credentials

import (
	"errors"
	"testing"
)

func TestNewStoreWithoutSeed(t *testing.T) {
	s := NewStore("")
	if s.Ready() {
		t.Fatalf("empty seed must leave the store not ready")
	}
	if got := s.State(); got != StateUninitialized {
		t.Fatalf("state = %q, want %q", got, StateUninitialized)
	}
	if _, err := s.Key(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestNewStoreWithSeed(t *testing.T) {
	s := NewStore("  seed-key \n")
	if !s.Ready() {
		t.Fatalf("seeded store must be ready")
	}
	key, err := s.Key()
	if err != nil {
		t.Fatalf("Key returned error: %v", err)
	}
	if key != "seed-key" {
		t.Fatalf("key = %q, want trimmed seed", key)
	}
}

func TestSetRejectsEmptyKey(t *testing.T) {
	s := NewStore("")
	if err := s.Set("   "); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("err = %v, want ErrEmptyKey", err)
	}
	if s.Ready() {
		t.Fatalf("rejected key must not make the store ready")
	}
}

func TestSetAfterClear(t *testing.T) {
	s := NewStore("first")
	s.Clear()
	if got := s.State(); got != StateCleared {
		t.Fatalf("state = %q, want %q", got, StateCleared)
	}
	if _, err := s.Key(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err after clear = %v, want ErrNotReady", err)
	}

	if err := s.Set("second"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	key, err := s.Key()
	if err != nil || key != "second" {
		t.Fatalf("Key = %q, %v, want second", key, err)
	}
	if got := s.State(); got != StateReady {
		t.Fatalf("state = %q, want %q", got, StateReady)
	}
}
