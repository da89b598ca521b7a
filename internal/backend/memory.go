package backend

import (
	"fmt"
	"sync"

	"shelf-go/internal/shelf"
)

// MemoryBackend keeps every blob in a map. Nothing survives the process,
// which makes it the backend of choice for tests.
// This implementation is safe for concurrent use.
type MemoryBackend struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	closed bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		blobs: make(map[string][]byte),
	}
}

// Get returns a copy of the blob stored under key.
func (m *MemoryBackend) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, fmt.Errorf("memory backend is closed")
	}

	data, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set stores a copy of data under key.
func (m *MemoryBackend) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("memory backend is closed")
	}

	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

// Len returns the number of keys currently stored.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

// Close marks the backend closed; later calls fail.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Compile-time check that MemoryBackend implements shelf.Backend
var _ shelf.Backend = (*MemoryBackend)(nil)
