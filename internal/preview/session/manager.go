package session

import (
	"sync"
	"time"

	"github.com/matthewbaird/appdeck/internal/document"
)

// Manager tracks live previews by id and prunes idle ones.
type Manager struct {
	mu          sync.RWMutex
	previews    map[string]*Preview
	idleTimeout time.Duration
}

// NewManager creates a manager with the given idle timeout.
func NewManager(idleTimeout time.Duration) *Manager {
	return &Manager{
		previews:    make(map[string]*Preview),
		idleTimeout: idleTimeout,
	}
}

// Create starts a new preview for the app and registers it.
func (m *Manager) Create(app *document.App) *Preview {
	p := NewPreview(app)
	m.mu.Lock()
	m.previews[p.ID] = p
	m.mu.Unlock()
	return p
}

// Get returns the preview with the given id, or nil.
func (m *Manager) Get(id string) *Preview {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previews[id]
}

// Remove drops a preview.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.previews, id)
	m.mu.Unlock()
}

// Count returns the number of live previews.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.previews)
}

// PruneIdle removes previews idle beyond the timeout and returns how
// many were dropped.
func (m *Manager) PruneIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	pruned := 0
	for id, p := range m.previews {
		if p.IsIdle(m.idleTimeout) {
			delete(m.previews, id)
			pruned++
		}
	}
	return pruned
}
