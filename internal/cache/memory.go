package cache

import (
	"context"       // Context for cache operations
	"encoding/json" // JSON encoding/decoding
	"sync"          // Mutex for concurrent access
	"time"          // TTL durations
)

// Memory is an in-process Cache used in tests and single-node setups
type Memory struct {
	mu    sync.RWMutex      // Guards the entries map
	items map[string][]byte // Stored JSON documents
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

// Get retrieves a value and unmarshals it into dest
func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.items[key] // Look up the key
	if !ok {
		return false, nil // Key does not exist
	}
	return true, json.Unmarshal(b, dest) // Unmarshal JSON into dest
}

// Set stores a value; the TTL is ignored in-memory
func (m *Memory) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = b // Store the document
	return nil
}

// Delete removes a key
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key) // Remove the key
	return nil
}
