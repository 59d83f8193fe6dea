package cart

import (
	"sync" // Mutex for concurrent access
)

// Manager owns one cart per signed-in user. Carts are created lazily on
// first access and dropped on release (logout); they are never persisted.
type Manager struct {
	mu    sync.Mutex       // Guards the carts map
	carts map[string]*Cart // Active carts keyed by user ID
}

// NewManager creates an empty cart manager
func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Cart)}
}

// Get returns the cart for a user, creating it on first access
func (m *Manager) Get(userID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID] // Look up an existing cart
	if !ok {
		c = New()            // Create a fresh cart
		m.carts[userID] = c  // Remember it for the session
	}
	return c
}

// Release drops the cart for a user (called on logout)
func (m *Manager) Release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID) // Forget the cart
}
