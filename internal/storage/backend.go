// Package storage persists the task list in a named durable slot.
//
// A Backend is a small key-value store holding raw slot payloads. The
// Adapter sits on top of a Backend and reads and writes the full task list
// under one key.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Common errors.
var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrCorruptSlot  = errors.New("corrupt slot")
	ErrInvalidKey   = errors.New("invalid slot key")
	ErrClosed       = errors.New("backend closed")
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// DefaultKey is the slot key used when none is configured.
const DefaultKey = "todos"

// Backend stores raw slot payloads by key.
type Backend interface {
	// Get returns the payload stored under key.
	// Returns ErrSlotNotFound if the key has never been written.
	Get(key string) ([]byte, error)

	// Put replaces the payload under key. Readers never observe a
	// partially written payload.
	Put(key string, value []byte) error

	// Location describes where key is stored, for display.
	Location(key string) string

	// Close releases resources.
	Close() error
}

// ValidateKey checks if a key is valid.
// Keys become file names, so path separators and dot segments are rejected.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if key == "." || key == ".." {
		return ErrInvalidKey
	}
	if strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return ErrInvalidKey
	}
	if filepath.Base(key) != key {
		return ErrInvalidKey
	}
	return nil
}

// Open creates a backend of the given kind rooted at dataDir.
func Open(kind, dataDir string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindFile:
		return NewFileBackend(dataDir)
	case KindSQLite:
		return NewSQLiteBackend(filepath.Join(dataDir, SQLiteFileName))
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s, %s or %s)", kind, KindFile, KindSQLite, KindMemory)
	}
}
