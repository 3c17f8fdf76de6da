package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/nibzard/todo-go/internal/todo"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

// Confirmation prompts.
const (
	confirmDeletePrompt = "Are you sure you want to delete this todo? (y/n)"
	confirmClearPrompt  = "Delete all completed todos? (y/n)"
)

// listView renders the latest emission of the task list.
type listView struct {
	tasks     []todo.Task
	loaded    bool
	cursor    int
	active    int
	completed int

	confirm   confirmKind
	confirmID todo.ID

	status string
	failed bool
}

// setTasks replaces the list, keeping the cursor on the same task when it
// still exists. Counts come from the same emission so the footer never
// disagrees with the rows.
func (l *listView) setTasks(tasks []todo.Task) {
	var selected todo.ID
	if l.cursor < len(l.tasks) {
		selected = l.tasks[l.cursor].ID
	}

	l.tasks = tasks
	l.loaded = true
	l.active = todo.CountCompleted(tasks, false)
	l.completed = todo.CountCompleted(tasks, true)

	if i := todo.IndexOf(tasks, selected); i >= 0 {
		l.cursor = i
	}
	l.clampCursor()
}

func (l *listView) clampCursor() {
	if l.cursor >= len(l.tasks) {
		l.cursor = len(l.tasks) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *listView) selected() (todo.Task, bool) {
	if l.cursor < 0 || l.cursor >= len(l.tasks) {
		return todo.Task{}, false
	}
	return l.tasks[l.cursor], true
}

func (l *listView) setStatus(msg string, failed bool) {
	l.status = msg
	l.failed = failed
}

func (l *listView) handleKey(msg tea.KeyMsg, st TaskStore, logger *log.Logger) tea.Cmd {
	if l.confirm != confirmNone {
		l.answer(msg.String(), st, logger)
		return nil
	}

	l.setStatus("", false)
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		l.cursor--
		l.clampCursor()
	case "down", "j":
		l.cursor++
		l.clampCursor()
	case "home", "g":
		l.cursor = 0
	case "end", "G":
		l.cursor = len(l.tasks) - 1
		l.clampCursor()
	case " ", "x":
		if task, ok := l.selected(); ok {
			_, found, err := st.Toggle(task.ID)
			l.report(found, err, logger)
		}
	case "d":
		if task, ok := l.selected(); ok {
			l.confirm = confirmDelete
			l.confirmID = task.ID
		}
	case "c":
		l.confirm = confirmClear
	case "e", "enter":
		if task, ok := l.selected(); ok {
			return editCmd(&task)
		}
	case "n":
		return editCmd(nil)
	}
	return nil
}

// answer resolves a pending confirmation.
func (l *listView) answer(key string, st TaskStore, logger *log.Logger) {
	kind, id := l.confirm, l.confirmID
	l.confirm = confirmNone
	l.confirmID = ""
	if key != "y" && key != "Y" {
		return
	}

	switch kind {
	case confirmDelete:
		removed, err := st.Delete(id)
		l.report(removed, err, logger)
	case confirmClear:
		n, err := st.ClearCompleted()
		if err != nil {
			l.report(true, err, logger)
			return
		}
		l.setStatus(fmt.Sprintf("Cleared %d completed %s", n, plural(n, "todo", "todos")), false)
	}
}

func (l *listView) report(found bool, err error, logger *log.Logger) {
	switch {
	case err != nil:
		logger.Error("store operation failed", "err", err)
		l.setStatus("Error: "+err.Error(), true)
	case !found:
		l.setStatus("Todo not found", true)
	}
}

func editCmd(task *todo.Task) tea.Cmd {
	return func() tea.Msg {
		return editMsg{task: task}
	}
}

func (l *listView) view(b *strings.Builder, width int, focused bool) {
	b.WriteString(sectionStyle.Render("Todos") + "\n\n")

	switch {
	case !l.loaded:
		b.WriteString("  Loading...\n")
	case len(l.tasks) == 0:
		b.WriteString("  No todos yet. Press n to add one.\n")
	}

	for i, task := range l.tasks {
		marker := "  "
		if focused && i == l.cursor {
			marker = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}

		title := runewidth.Truncate(task.Title, max(width-8, 10), "…")
		if task.Completed {
			title = completedStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, check, title))

		if task.Description != "" {
			desc := runewidth.Truncate(task.Description, max(width-8, 10), "…")
			b.WriteString("      " + descriptionStyle.Render(desc) + "\n")
		}
	}

	b.WriteString(fmt.Sprintf("\n  %d active, %d completed\n", l.active, l.completed))

	switch l.confirm {
	case confirmDelete:
		b.WriteString("\n" + promptStyle.Render(confirmDeletePrompt) + "\n")
	case confirmClear:
		b.WriteString("\n" + promptStyle.Render(confirmClearPrompt) + "\n")
	}
	if l.status != "" {
		style := successStyle
		if l.failed {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(l.status) + "\n")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
