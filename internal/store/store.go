// Package store owns the authoritative task list.
//
// Every mutation is one read-modify-persist-publish cycle: the new list is
// built from the current one, handed to the Persister, and only after a
// successful save swapped in and published on the broadcast stream. A failed
// save leaves both the in-memory list and the stream untouched.
//
// Mutations are serialized. Reads never wait for a save in progress; they
// see the last committed list. Subscribers are called before the mutating
// call returns and may read the store, but must not mutate it from inside
// the callback.
package store

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/broadcast"
	"github.com/nibzard/todo-go/internal/todo"
)

// maxIDAttempts bounds redraws when a generator returns an id in use.
const maxIDAttempts = 16

// Persister loads and saves the full task list.
type Persister interface {
	Load() ([]todo.Task, error)
	Save(tasks []todo.Task) error
}

// observer is implemented by generators that need to know existing ids.
type observer interface {
	Observe(id todo.ID)
}

// Store is the single writer of the task list.
type Store struct {
	persister Persister
	ids       todo.IDGenerator
	now       func() time.Time
	logger    *log.Logger

	writeMu sync.Mutex

	mu    sync.RWMutex
	tasks []todo.Task

	stream *broadcast.Value[[]todo.Task]
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets the id generator. The default is todo.UUIDGenerator.
func WithIDGenerator(g todo.IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithClock sets the clock used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New loads the persisted list and returns a store publishing it.
func New(p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		persister: p,
		ids:       todo.UUIDGenerator{},
		now:       time.Now,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	if err := todo.CheckUniqueIDs(tasks); err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	s.tasks = todo.Clone(tasks)
	if obs, ok := s.ids.(observer); ok {
		for _, t := range s.tasks {
			obs.Observe(t.ID)
		}
	}
	s.stream = broadcast.New(todo.Clone(s.tasks))

	s.logger.Debug("store loaded", "tasks", len(s.tasks))
	return s, nil
}

// List returns the broadcast stream of the full task list. Every value is a
// full replacement; subscribers must not modify it.
func (s *Store) List() *broadcast.Value[[]todo.Task] {
	return s.stream
}

// Snapshot returns a copy of the current list.
func (s *Store) Snapshot() []todo.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return todo.Clone(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id todo.ID) (todo.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := todo.IndexOf(s.tasks, id); i >= 0 {
		return s.tasks[i], true
	}
	return todo.Task{}, false
}

// CountActive returns the number of tasks not completed.
func (s *Store) CountActive() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return todo.CountCompleted(s.tasks, false)
}

// CountCompleted returns the number of completed tasks.
func (s *Store) CountCompleted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return todo.CountCompleted(s.tasks, true)
}

// Create appends a new task built from d.
func (s *Store) Create(d todo.Draft) (todo.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Snapshot()
	id, err := s.newID(current)
	if err != nil {
		return todo.Task{}, err
	}

	task := todo.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Completed:   false,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.commit(append(current, task)); err != nil {
		return todo.Task{}, err
	}

	s.logger.Debug("created task", "id", task.ID)
	return task, nil
}

// Update merges p over the task with the given id. The id and createdAt of
// the stored task are kept whatever p carries. It reports false, without
// saving or publishing, when no task has the id.
func (s *Store) Update(id todo.ID, p todo.Patch) (todo.Task, bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.update(id, p)
}

func (s *Store) update(id todo.ID, p todo.Patch) (todo.Task, bool, error) {
	current := s.Snapshot()
	i := todo.IndexOf(current, id)
	if i < 0 {
		return todo.Task{}, false, nil
	}

	original := current[i]
	updated := p.Apply(original)
	updated.ID = original.ID
	updated.CreatedAt = original.CreatedAt
	current[i] = updated

	if err := s.commit(current); err != nil {
		return todo.Task{}, true, err
	}

	s.logger.Debug("updated task", "id", id)
	return updated, true, nil
}

// Toggle flips the completed flag of the task with the given id.
func (s *Store) Toggle(id todo.ID) (todo.Task, bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	task, ok := s.Get(id)
	if !ok {
		return todo.Task{}, false, nil
	}
	return s.update(id, todo.Patch{}.WithCompleted(!task.Completed))
}

// Delete removes the task with the given id. It saves and publishes only
// when a task was removed.
func (s *Store) Delete(id todo.ID) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Snapshot()
	i := todo.IndexOf(current, id)
	if i < 0 {
		return false, nil
	}
	next := append(current[:i:i], current[i+1:]...)

	if err := s.commit(next); err != nil {
		return false, err
	}

	s.logger.Debug("deleted task", "id", id)
	return true, nil
}

// ClearCompleted removes every completed task and returns how many were
// removed. It always saves and publishes.
func (s *Store) ClearCompleted() (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Snapshot()
	next := make([]todo.Task, 0, len(current))
	for _, t := range current {
		if !t.Completed {
			next = append(next, t)
		}
	}
	removed := len(current) - len(next)

	if err := s.commit(next); err != nil {
		return 0, err
	}

	s.logger.Debug("cleared completed tasks", "removed", removed)
	return removed, nil
}

// commit saves next, then swaps it in and publishes it. Callers hold writeMu.
func (s *Store) commit(next []todo.Task) error {
	if err := s.persister.Save(next); err != nil {
		s.logger.Error("saving todos failed", "err", err)
		return fmt.Errorf("save todos: %w", err)
	}

	s.mu.Lock()
	s.tasks = next
	s.mu.Unlock()

	s.stream.Publish(todo.Clone(next))
	return nil
}

// newID draws ids until one is not in use.
func (s *Store) newID(current []todo.Task) (todo.ID, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.ids.NewID()
		if id != "" && todo.IndexOf(current, id) < 0 {
			return id, nil
		}
		s.logger.Warn("id generator returned an id in use", "id", id)
	}
	return "", fmt.Errorf("no unused id after %d attempts", maxIDAttempts)
}
