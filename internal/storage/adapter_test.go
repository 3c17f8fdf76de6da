package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/todo"
)

func sampleTasks() []todo.Task {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []todo.Task{
		{ID: "a1", Title: "One", Description: "first", CreatedAt: created},
		{ID: "1704164645000", Title: "Two", Completed: true, CreatedAt: created.Add(time.Hour)},
	}
}

func equalTasks(t *testing.T, got, want []todo.Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Tasks count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Title != w.Title || g.Description != w.Description ||
			g.Completed != w.Completed || !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("task %d: got %+v, want %+v", i, g, w)
		}
	}
}

func TestAdapterLoadMissingSlot(t *testing.T) {
	for _, strict := range []bool{false, true} {
		a := NewAdapter(NewMemoryBackend(), WithStrict(strict))
		tasks, err := a.Load()
		if err != nil {
			t.Fatalf("strict=%v: Load failed: %v", strict, err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("strict=%v: got %#v, want empty list", strict, tasks)
		}
	}
}

func TestAdapterSaveThenReload(t *testing.T) {
	for name, factory := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			backend := factory()
			defer backend.Close()

			a := NewAdapter(backend)
			want := sampleTasks()
			if err := a.Save(want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			// A fresh adapter stands in for a process restart.
			reloaded, err := NewAdapter(backend).Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			equalTasks(t, reloaded, want)
		})
	}
}

func TestAdapterSaveEmptyWritesArray(t *testing.T) {
	backend := NewMemoryBackend()
	a := NewAdapter(backend)
	if err := a.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, err := a.Raw()
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if string(raw) != "[]\n" {
		t.Errorf("Raw: got %q, want %q", raw, "[]\n")
	}
}

func TestAdapterMalformedPayload(t *testing.T) {
	payloads := map[string]string{
		"not json":      `{{{`,
		"wrong shape":   `{"todos": []}`,
		"schema broken": `[{"id": "x", "title": 5, "completed": false, "createdAt": "2024-01-01T00:00:00Z"}]`,
	}

	for name, payload := range payloads {
		t.Run(name+"/lenient", func(t *testing.T) {
			backend := NewMemoryBackend()
			backend.Put(DefaultKey, []byte(payload))

			var logs bytes.Buffer
			logger := log.New(&logs)
			a := NewAdapter(backend, WithLogger(logger))

			tasks, err := a.Load()
			if err != nil {
				t.Fatalf("Load: unexpected error %v", err)
			}
			if len(tasks) != 0 {
				t.Errorf("Load: got %d tasks, want 0", len(tasks))
			}
			if !strings.Contains(logs.String(), "ignoring unreadable slot") {
				t.Errorf("expected warning in log, got %q", logs.String())
			}
		})

		t.Run(name+"/strict", func(t *testing.T) {
			backend := NewMemoryBackend()
			backend.Put(DefaultKey, []byte(payload))

			a := NewAdapter(backend, WithStrict(true))
			tasks, err := a.Load()
			if !errors.Is(err, ErrCorruptSlot) {
				t.Fatalf("Load: got err %v, want ErrCorruptSlot", err)
			}
			if tasks != nil {
				t.Errorf("Load: got tasks %v on error", tasks)
			}
		})
	}
}

type failingBackend struct {
	*MemoryBackend
	getErr error
	putErr error
}

func (b *failingBackend) Get(key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.MemoryBackend.Get(key)
}

func (b *failingBackend) Put(key string, value []byte) error {
	if b.putErr != nil {
		return b.putErr
	}
	return b.MemoryBackend.Put(key, value)
}

func TestAdapterBackendReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	backend := &failingBackend{MemoryBackend: NewMemoryBackend(), getErr: boom}

	tasks, err := NewAdapter(backend).Load()
	if err != nil || len(tasks) != 0 {
		t.Errorf("lenient: got %v, %v; want empty list, nil", tasks, err)
	}

	_, err = NewAdapter(backend, WithStrict(true)).Load()
	if !errors.Is(err, ErrCorruptSlot) || !errors.Is(err, boom) {
		t.Errorf("strict: got %v, want ErrCorruptSlot wrapping cause", err)
	}
}

func TestAdapterSaveError(t *testing.T) {
	boom := errors.New("read-only")
	backend := &failingBackend{MemoryBackend: NewMemoryBackend(), putErr: boom}

	err := NewAdapter(backend).Save(sampleTasks())
	if !errors.Is(err, boom) {
		t.Errorf("Save: got %v, want wrapped %v", err, boom)
	}
}

func TestAdapterKey(t *testing.T) {
	backend := NewMemoryBackend()
	a := NewAdapter(backend, WithKey("work"))
	if a.Key() != "work" {
		t.Errorf("Key: got %q, want work", a.Key())
	}
	if err := a.Save(sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := backend.Get(DefaultKey); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("default key written: %v", err)
	}
	if a.Location() != "memory:work" {
		t.Errorf("Location: got %q", a.Location())
	}

	if NewAdapter(backend, WithKey("")).Key() != DefaultKey {
		t.Error("empty WithKey should keep the default")
	}
}
