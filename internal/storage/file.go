package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/todo-go/internal/datadir"
)

// FileBackend stores each slot as <dir>/<key>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir.
// The directory is created on first write.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("data dir is empty")
	}
	return &FileBackend{dir: filepath.Clean(dir)}, nil
}

// Dir returns the backend root.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Location returns the file path for key.
func (b *FileBackend) Location(key string) string {
	return datadir.SlotPath(b.dir, key)
}

// Get reads the slot file.
func (b *FileBackend) Get(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Location(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("read slot file: %w", err)
	}
	return data, nil
}

// Put writes the payload to a temp file in the same directory and renames it
// over the slot file.
func (b *FileBackend) Put(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync slot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod slot file: %w", err)
	}
	if err := os.Rename(tmpPath, b.Location(key)); err != nil {
		return fmt.Errorf("replace slot file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (b *FileBackend) Close() error {
	return nil
}
