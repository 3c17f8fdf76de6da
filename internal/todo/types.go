// Package todo defines the task record and the durable slot layout.
package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyTitle is returned when a title is blank.
var ErrEmptyTitle = errors.New("title is required")

// ErrDuplicateID is returned when two tasks in one list share an id.
var ErrDuplicateID = errors.New("duplicate task id")

// ID identifies a task. It is opaque to callers.
type ID string

// String returns the id text.
func (id ID) String() string {
	return string(id)
}

// MarshalJSON writes all-digit ids as JSON numbers and everything else as
// JSON strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if isNumericID(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	canonical, err := canonicalNumber(n.String())
	if err != nil {
		return err
	}
	*id = ID(canonical)
	return nil
}

// canonicalNumber rewrites a JSON number such as 1.0e3 as plain decimal
// digits, so that equal numbers always yield equal ids.
func canonicalNumber(s string) (string, error) {
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return strconv.FormatUint(u, 10), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return "", fmt.Errorf("numeric id %s is not a non-negative integer", s)
	}
	return strconv.FormatUint(uint64(f), 10), nil
}

// isNumericID reports whether s is a non-negative integer in canonical
// JSON form (no sign, no leading zeros).
func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Task represents a single todo item.
type Task struct {
	ID          ID        `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Completed   bool      `json:"completed" yaml:"completed"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// Draft holds the caller-supplied fields of a new task.
type Draft struct {
	Title       string
	Description string
}

// Patch holds optional replacements for a task's mutable fields.
// Nil fields are left unchanged.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// WithTitle returns a copy of p that sets the title.
func (p Patch) WithTitle(title string) Patch {
	p.Title = &title
	return p
}

// WithDescription returns a copy of p that sets the description.
func (p Patch) WithDescription(description string) Patch {
	p.Description = &description
	return p
}

// WithCompleted returns a copy of p that sets the completed flag.
func (p Patch) WithCompleted(completed bool) Patch {
	p.Completed = &completed
	return p
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply returns t with the fields of p merged over it.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// ValidateDraft checks a draft before it is handed to the store.
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Path: "title", Err: ErrEmptyTitle}
	}
	return nil
}

// ValidatePatch checks a patch before it is handed to the store.
// A patch that leaves the title alone is always valid.
func ValidatePatch(p Patch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &ValidationError{Path: "title", Err: ErrEmptyTitle}
	}
	return nil
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Clone returns a copy of tasks that shares no backing array with it.
// A nil input yields an empty, non-nil slice.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []Task, id ID) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// CheckUniqueIDs reports the first id that appears more than once.
func CheckUniqueIDs(tasks []Task) error {
	seen := make(map[ID]int, len(tasks))
	for i, t := range tasks {
		if first, ok := seen[t.ID]; ok {
			return &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("%w %q, first used at [%d]", ErrDuplicateID, t.ID, first),
			}
		}
		seen[t.ID] = i
	}
	return nil
}

// CountCompleted returns how many tasks have the given completed flag.
func CountCompleted(tasks []Task, completed bool) int {
	n := 0
	for i := range tasks {
		if tasks[i].Completed == completed {
			n++
		}
	}
	return n
}
