// Package ui provides the interactive terminal interface: a list view and a
// form view under a root model that tracks which task is being edited.
package ui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/todo-go/internal/broadcast"
	"github.com/nibzard/todo-go/internal/todo"
)

// ErrNoTTY is returned when the terminal UI is started without a terminal.
var ErrNoTTY = errors.New("tui requires a TTY")

// TaskStore is the part of the task store the terminal UI uses.
type TaskStore interface {
	List() *broadcast.Value[[]todo.Task]
	Create(d todo.Draft) (todo.Task, error)
	Update(id todo.ID, p todo.Patch) (todo.Task, bool, error)
	Toggle(id todo.ID) (todo.Task, bool, error)
	Delete(id todo.ID) (bool, error)
	ClearCompleted() (int, error)
}

// RunTUI runs the terminal UI until the user quits or ctx ends.
func RunTUI(ctx context.Context, st TaskStore, opts ...Option) error {
	if !IsTTY(os.Stdout) {
		return ErrNoTTY
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(st, st.List().Watch(ctx), opts...)
	model.logger.Info("tui started")

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}

	model.logger.Info("tui exited", "err", err)
	return err
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
