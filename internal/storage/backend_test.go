package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// backendFactories lists every backend under the shared contract tests.
func backendFactories(t *testing.T) map[string]func() Backend {
	t.Helper()
	return map[string]func() Backend{
		KindFile: func() Backend {
			b, err := NewFileBackend(filepath.Join(t.TempDir(), "data"))
			if err != nil {
				t.Fatalf("NewFileBackend failed: %v", err)
			}
			return b
		},
		KindSQLite: func() Backend {
			b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "data", SQLiteFileName))
			if err != nil {
				t.Fatalf("NewSQLiteBackend failed: %v", err)
			}
			return b
		},
		KindMemory: func() Backend {
			return NewMemoryBackend()
		},
	}
}

func TestBackendContract(t *testing.T) {
	for name, factory := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			b := factory()
			defer b.Close()

			if _, err := b.Get("todos"); !errors.Is(err, ErrSlotNotFound) {
				t.Fatalf("Get on empty backend: got %v, want ErrSlotNotFound", err)
			}

			if err := b.Put("todos", []byte("first")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, err := b.Get("todos")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != "first" {
				t.Errorf("Get: got %q, want first", got)
			}

			if err := b.Put("todos", []byte("second")); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, _ = b.Get("todos")
			if string(got) != "second" {
				t.Errorf("Get after overwrite: got %q, want second", got)
			}

			if err := b.Put("other", []byte("x")); err != nil {
				t.Fatalf("Put other key failed: %v", err)
			}
			got, _ = b.Get("todos")
			if string(got) != "second" {
				t.Errorf("keys interfere: got %q", got)
			}

			if _, err := b.Get("../escape"); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Get invalid key: got %v, want ErrInvalidKey", err)
			}
			if err := b.Put("", []byte("x")); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Put empty key: got %v, want ErrInvalidKey", err)
			}

			if b.Location("todos") == "" {
				t.Error("Location is empty")
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	valid := []string{"todos", "todos-backup", "a.b"}
	for _, k := range valid {
		if err := ValidateKey(k); err != nil {
			t.Errorf("ValidateKey(%q): unexpected error %v", k, err)
		}
	}
	invalid := []string{"", "  ", ".", "..", "a/b", `a\b`, "a\x00b"}
	for _, k := range invalid {
		if err := ValidateKey(k); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q): got %v, want ErrInvalidKey", k, err)
		}
	}
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := b.Put("todos", []byte("[]\n")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "todos.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents: got %v, want [todos.json]", names)
	}
}

func TestFileBackendEmptyDir(t *testing.T) {
	if _, err := NewFileBackend(""); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestSQLiteBackendPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), SQLiteFileName)

	b, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	if err := b.Put("todos", []byte("payload")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close: got %v, want nil", err)
	}
	if _, err := b.Get("todos"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close: got %v, want ErrClosed", err)
	}

	reopened, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get("todos")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Get after reopen: got %q, want payload", got)
	}
}

func TestMemoryBackendCopies(t *testing.T) {
	b := NewMemoryBackend()
	buf := []byte("abc")
	if err := b.Put("k", buf); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	buf[0] = 'X'
	got, _ := b.Get("k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: got %q", got)
	}
	got[0] = 'Y'
	again, _ := b.Get("k")
	if string(again) != "abc" {
		t.Errorf("returned value aliased storage: got %q", again)
	}

	b.Close()
	if err := b.Put("k", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Put after Close: got %v, want ErrClosed", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		kind    string
		wantErr bool
		want    string
	}{
		{"", false, "*storage.FileBackend"},
		{"file", false, "*storage.FileBackend"},
		{"SQLite", false, "*storage.SQLiteBackend"},
		{"memory", false, "*storage.MemoryBackend"},
		{"redis", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			b, err := Open(tt.kind, dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q): err %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if err != nil {
				if !strings.Contains(err.Error(), "unknown storage backend") {
					t.Errorf("unexpected error text %q", err)
				}
				return
			}
			defer b.Close()
			if got := typeName(b); got != tt.want {
				t.Errorf("Open(%q): got %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func typeName(b Backend) string {
	switch b.(type) {
	case *FileBackend:
		return "*storage.FileBackend"
	case *SQLiteBackend:
		return "*storage.SQLiteBackend"
	case *MemoryBackend:
		return "*storage.MemoryBackend"
	default:
		return "unknown"
	}
}
