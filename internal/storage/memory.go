package storage

import (
	"bytes"
	"sync"
)

// MemoryBackend keeps slots in process memory.
// Useful for testing and throwaway sessions.
type MemoryBackend struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	closed bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

// Location returns a pseudo location for key.
func (b *MemoryBackend) Location(key string) string {
	return "memory:" + key
}

// Get returns a copy of the stored payload.
func (b *MemoryBackend) Get(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	v, ok := b.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return bytes.Clone(v), nil
}

// Put stores a copy of value.
func (b *MemoryBackend) Put(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.slots[key] = bytes.Clone(value)
	return nil
}

// Close marks the backend closed.
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
