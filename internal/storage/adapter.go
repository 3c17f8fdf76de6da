package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/todo"
)

// Adapter reads and writes the full task list under one slot key.
//
// By default a slot that cannot be read or decoded is treated as empty and a
// warning is logged. In strict mode the failure is returned as
// ErrCorruptSlot instead.
type Adapter struct {
	backend Backend
	key     string
	strict  bool
	logger  *log.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithKey sets the slot key.
func WithKey(key string) AdapterOption {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithStrict makes Load return read and decode failures.
func WithStrict(strict bool) AdapterOption {
	return func(a *Adapter) {
		a.strict = strict
	}
}

// WithLogger sets the logger used for recovered read failures.
func WithLogger(logger *log.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAdapter creates an adapter over backend.
func NewAdapter(backend Backend, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		backend: backend,
		key:     DefaultKey,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the slot key.
func (a *Adapter) Key() string {
	return a.key
}

// Location describes where the slot lives.
func (a *Adapter) Location() string {
	return a.backend.Location(a.key)
}

// Strict reports whether read failures are surfaced.
func (a *Adapter) Strict() bool {
	return a.strict
}

// Load returns the stored task list. A missing slot is an empty list.
func (a *Adapter) Load() ([]todo.Task, error) {
	data, err := a.backend.Get(a.key)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return []todo.Task{}, nil
		}
		return a.recover(err)
	}

	tasks, err := todo.DecodeSlot(data)
	if err != nil {
		return a.recover(err)
	}
	return tasks, nil
}

func (a *Adapter) recover(cause error) ([]todo.Task, error) {
	if a.strict {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSlot, a.Location(), cause)
	}
	a.logger.Warn("ignoring unreadable slot", "slot", a.Location(), "err", cause)
	return []todo.Task{}, nil
}

// Save replaces the stored task list.
func (a *Adapter) Save(tasks []todo.Task) error {
	data, err := todo.EncodeSlot(tasks)
	if err != nil {
		return err
	}
	if err := a.backend.Put(a.key, data); err != nil {
		return fmt.Errorf("write slot %s: %w", a.Location(), err)
	}
	return nil
}

// Raw returns the undecoded slot payload.
func (a *Adapter) Raw() ([]byte, error) {
	return a.backend.Get(a.key)
}
