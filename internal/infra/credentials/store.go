// Package credentials holds the Gemini API key for the lifetime of the
// process. The key is never persisted server-side; it is seeded from the
// environment at boot or supplied by a client at runtime.
package credentials

import (
	"errors"
	"strings"
	"sync"
)

// State describes the credential lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateReady         State = "ready"
	StateCleared       State = "cleared"
)

// ErrNotReady is returned when a key is requested before one has been set, or
// after it has been cleared.
var ErrNotReady = errors.New("credentials: api key not ready")

// ErrEmptyKey is returned when an empty key is submitted.
var ErrEmptyKey = errors.New("credentials: api key is required")

// Store is a concurrency-safe holder for the opaque bearer key.
type Store struct {
	mu    sync.RWMutex
	key   string
	state State
}

// NewStore seeds the store from the environment. An empty seed leaves the
// store uninitialized until a client supplies a key.
func NewStore(seed string) *Store {
	s := &Store{state: StateUninitialized}
	if key := strings.TrimSpace(seed); key != "" {
		s.key = key
		s.state = StateReady
	}
	return s
}

// Ready reports whether a key is available for outbound calls.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateReady
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Key returns the stored key or ErrNotReady.
func (s *Store) Key() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return "", ErrNotReady
	}
	return s.key, nil
}

// Set replaces the stored key and marks the store ready.
func (s *Store) Set(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.state = StateReady
	return nil
}

// Clear drops the stored key. Clients are expected to re-prompt for a new one.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = ""
	s.state = StateCleared
}
