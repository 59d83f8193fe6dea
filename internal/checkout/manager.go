package checkout

import (
	"sync" // Mutex for concurrent access
)

// Manager owns one checkout flow per signed-in user
type Manager struct {
	backend  Backend          // Shared record store client
	sessions Sessions         // Shared session store
	mu       sync.Mutex       // Guards the flows map
	flows    map[string]*Flow // Active flows keyed by user ID
}

// NewManager creates an empty flow manager
func NewManager(backend Backend, sessions Sessions) *Manager {
	return &Manager{
		backend:  backend,
		sessions: sessions,
		flows:    make(map[string]*Flow),
	}
}

// Get returns the flow for a user, creating it on first access
func (m *Manager) Get(userID string) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[userID] // Look up an existing flow
	if !ok {
		f = NewFlow(m.backend, m.sessions) // Create a fresh idle flow
		m.flows[userID] = f                // Remember it for the session
	}
	return f
}

// Release drops the flow for a user (called on logout)
func (m *Manager) Release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, userID) // Forget the flow
}
