package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/todo"
)

// Form messages.
const (
	msgEmptyTitle = "Please enter a title"
	msgCreated    = "Todo created successfully!"
	msgUpdated    = "Todo updated successfully!"
	msgNotFound   = "Todo not found"
)

const (
	fieldTitle = iota
	fieldDescription
)

// formView edits a draft. It creates a task when nothing is being edited and
// updates the edited task otherwise.
type formView struct {
	title       string
	description string
	field       int

	success   string
	err       string
	submitted bool

	// seq identifies the current form session so that a completion timer
	// from an earlier session is ignored.
	seq   int
	delay time.Duration
}

// open starts a new form session, prefilled from task when editing.
func (f *formView) open(task *todo.Task) {
	f.reset()
	if task != nil {
		f.title = task.Title
		f.description = task.Description
	}
}

// reset clears the fields and messages and starts a new session.
func (f *formView) reset() {
	f.title = ""
	f.description = ""
	f.field = fieldTitle
	f.success = ""
	f.err = ""
	f.submitted = false
	f.seq++
}

func (f *formView) handleKey(msg tea.KeyMsg, st TaskStore, editing *todo.Task, logger *log.Logger) tea.Cmd {
	if f.submitted {
		return nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		return f.done(0)
	case tea.KeyEnter:
		return f.submit(st, editing, logger)
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		f.field = 1 - f.field
	case tea.KeyBackspace:
		f.setActive(dropLastRune(f.active()))
	case tea.KeyCtrlU:
		f.setActive("")
	case tea.KeySpace:
		f.setActive(f.active() + " ")
	case tea.KeyRunes:
		f.setActive(f.active() + string(msg.Runes))
	}
	return nil
}

func (f *formView) active() string {
	if f.field == fieldDescription {
		return f.description
	}
	return f.title
}

func (f *formView) setActive(s string) {
	if f.field == fieldDescription {
		f.description = s
		return
	}
	f.title = s
}

// submit validates the draft and calls the store. On success it shows the
// success message and reports completion after the configured delay.
func (f *formView) submit(st TaskStore, editing *todo.Task, logger *log.Logger) tea.Cmd {
	f.err = ""
	f.success = ""

	draft := todo.Draft{Title: f.title, Description: f.description}
	if err := todo.ValidateDraft(draft); err != nil {
		f.err = msgEmptyTitle
		return nil
	}

	if editing == nil {
		task, err := st.Create(draft)
		if err != nil {
			logger.Error("create failed", "err", err)
			f.err = "Error creating todo: " + err.Error()
			return nil
		}
		logger.Debug("created from form", "id", task.ID)
		f.success = msgCreated
	} else {
		patch := todo.Patch{}.WithTitle(draft.Title).WithDescription(draft.Description)
		_, found, err := st.Update(editing.ID, patch)
		switch {
		case err != nil:
			logger.Error("update failed", "id", editing.ID, "err", err)
			f.err = "Error updating todo: " + err.Error()
			return nil
		case !found:
			f.err = msgNotFound
			return nil
		}
		f.success = msgUpdated
	}

	f.submitted = true
	return f.done(f.delay)
}

// done reports completion of the current session after d.
func (f *formView) done(d time.Duration) tea.Cmd {
	seq := f.seq
	if d <= 0 {
		return func() tea.Msg { return formDoneMsg{seq: seq} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return formDoneMsg{seq: seq}
	})
}

func (f *formView) view(b *strings.Builder, editing, focused bool) {
	heading := "New Todo"
	if editing {
		heading = "Edit Todo"
	}
	b.WriteString(sectionStyle.Render(heading) + "\n\n")

	writeField(b, "Title", f.title, focused && f.field == fieldTitle)
	writeField(b, "Description", f.description, focused && f.field == fieldDescription)

	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render(f.err) + "\n")
	}
	if f.success != "" {
		b.WriteString("\n" + successStyle.Render(f.success) + "\n")
	}
}

func writeField(b *strings.Builder, label, value string, active bool) {
	line := "  " + label + ": " + value
	if active {
		line = activeFieldStyle.Render("> "+label+": ") + value + "_"
	}
	b.WriteString(line + "\n")
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
