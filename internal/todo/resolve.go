package todo

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Resolve.
var (
	ErrRefRequired  = errors.New("task id required")
	ErrTaskNotFound = errors.New("task not found")
	ErrAmbiguousRef = errors.New("ambiguous task id")
)

// Resolve finds the task whose id equals ref or, failing that, the single
// task whose id starts with ref.
func Resolve(tasks []Task, ref string) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, ErrRefRequired
	}

	if i := IndexOf(tasks, ID(ref)); i >= 0 {
		return tasks[i], nil
	}

	var matches []Task
	for _, t := range tasks {
		if strings.HasPrefix(string(t.ID), ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousRef, ref, len(matches))
	}
}

// ShortID returns the shortest prefix of id, at least minLen long, that no
// other task id in tasks shares.
func ShortID(tasks []Task, id ID, minLen int) string {
	s := string(id)
	if minLen <= 0 {
		minLen = 1
	}
	for n := minLen; n < len(s); n++ {
		prefix := s[:n]
		unique := true
		for _, t := range tasks {
			if t.ID != id && strings.HasPrefix(string(t.ID), prefix) {
				unique = false
				break
			}
		}
		if unique {
			return prefix
		}
	}
	return s
}
