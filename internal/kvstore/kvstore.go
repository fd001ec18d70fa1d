// Package kvstore provides the persistence port the rest of the application
// stores its state behind: a durable string-key/string-value table. Values are
// opaque to this layer; callers own serialization and must fall back to their
// own defaults when a key is absent.
package kvstore

import "sync"

// Store is the persistence port. Implementations never surface read or write
// errors to callers; a missing key is reported through the bool, and write
// failures are best-effort (logged by the implementation, not propagated).
type Store interface {
	// Get returns the raw value for key, and whether it was present.
	Get(key string) (string, bool)
	// Set writes the raw value for key, replacing any previous value.
	Set(key, value string)
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
}

// Memory is an in-process Store used in tests and as a fallback when no
// database path is configured.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
