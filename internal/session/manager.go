package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager is the uuid-keyed registry of live sessions. Idle sessions are
// swept after the TTL so abandoned clients do not pile up.
type Manager struct {
	deps Deps
	ttl  time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager constructs a session registry.
func NewManager(deps Deps, ttl time.Duration) *Manager {
	return &Manager{
		deps:     deps,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new idle session.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.deps)
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL and returns how many were
// dropped.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		busy := s.status == StatusGenerating || s.status == StatusAnalyzing
		s.mu.Unlock()
		if idle > m.ttl && !busy {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs the sweep loop until the context is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := m.Sweep(now); n > 0 {
					m.deps.Logger.Debug().Int("removed", n).Msg("session: swept idle sessions")
				}
			}
		}
	}()
}
