package todo

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Id schemes accepted by NewIDGenerator.
const (
	IDSchemeUUID     = "uuid"
	IDSchemeSequence = "sequence"
)

// IDGenerator produces ids for new tasks.
type IDGenerator interface {
	NewID() ID
}

// UUIDGenerator returns random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random id.
func (UUIDGenerator) NewID() ID {
	return ID(uuid.NewString())
}

// SequenceGenerator returns millisecond timestamps that never repeat.
// When the clock has not advanced past the last id, the last id plus one
// is used instead.
type SequenceGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewSequenceGenerator creates a generator reading the given clock.
// A nil clock means time.Now.
func NewSequenceGenerator(now func() time.Time) *SequenceGenerator {
	if now == nil {
		now = time.Now
	}
	return &SequenceGenerator{now: now}
}

// NewID returns the next id.
func (g *SequenceGenerator) NewID() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return ID(strconv.FormatInt(ms, 10))
}

// Observe records an id that already exists so that later ids sort after it.
// Non-numeric ids are ignored.
func (g *SequenceGenerator) Observe(id ID) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	if n > g.last {
		g.last = n
	}
	g.mu.Unlock()
}

// NewIDGenerator returns the generator for a scheme name.
// An empty scheme selects UUIDs.
func NewIDGenerator(scheme string, now func() time.Time) (IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", IDSchemeUUID:
		return UUIDGenerator{}, nil
	case IDSchemeSequence, "timestamp":
		return NewSequenceGenerator(now), nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q (want %s or %s)", scheme, IDSchemeUUID, IDSchemeSequence)
	}
}
