// internal/session/memory.go
//
// In-memory implementation of Store.
//
// Characteristics:
//   - Entries keyed by user id in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; the engine then rebuilds it
//     from the game_sessions table.

package session

import (
	"context"
	"sync"
)

type memory struct {
	mu     sync.RWMutex     // guards active
	active map[int64]Active // keyed by user id
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{active: make(map[int64]Active)}
}

func (m *memory) Get(_ context.Context, userID int64) (Active, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.active[userID]; ok {
		return a.clone(), nil
	}
	return Active{}, ErrNoActive
}

func (m *memory) Set(_ context.Context, userID int64, a Active) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[userID] = a.clone()
	return nil
}

func (m *memory) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, userID)
	return nil
}
