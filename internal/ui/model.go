package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/todo"
)

// DefaultSuccessDelay is how long the form shows its success message.
const DefaultSuccessDelay = 500 * time.Millisecond

const defaultWidth = 80

type focus int

const (
	focusList focus = iota
	focusForm
)

// tasksMsg carries one emission of the task list stream.
type tasksMsg []todo.Task

// streamClosedMsg reports that the task list stream ended.
type streamClosedMsg struct{}

// editMsg asks the root model to open the form. A nil task means a new one.
type editMsg struct {
	task *todo.Task
}

// formDoneMsg reports that the form finished or was cancelled.
type formDoneMsg struct {
	seq int
}

// Option configures the root model.
type Option func(*Model)

// WithSuccessDelay sets how long the form shows its success message before
// it reports completion.
func WithSuccessDelay(d time.Duration) Option {
	return func(m *Model) {
		if d >= 0 {
			m.form.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Model is the root of the terminal UI. It owns the list and form views and
// holds at most one task being edited.
type Model struct {
	store   TaskStore
	updates <-chan []todo.Task
	logger  *log.Logger

	list    listView
	form    formView
	focus   focus
	editing *todo.Task
	width   int
}

// NewModel creates the root model. updates delivers every emission of the
// task list; it may be nil when emissions are fed in another way.
func NewModel(st TaskStore, updates <-chan []todo.Task, opts ...Option) *Model {
	m := &Model{
		store:   st,
		updates: updates,
		logger:  logging.Discard(),
		form:    formView{delay: DefaultSuccessDelay},
		width:   defaultWidth,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Editing returns the task being edited, or nil.
func (m *Model) Editing() *todo.Task {
	return m.editing
}

func (m *Model) Init() tea.Cmd {
	return waitForTasks(m.updates)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil

	case tasksMsg:
		m.list.setTasks(msg)
		return m, waitForTasks(m.updates)

	case streamClosedMsg:
		return m, tea.Quit

	case editMsg:
		m.editing = msg.task
		m.form.open(msg.task)
		m.focus = focusForm
		return m, nil

	case formDoneMsg:
		if msg.seq != m.form.seq {
			return m, nil
		}
		m.editing = nil
		m.form.reset()
		m.focus = focusList
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.focus == focusForm {
			return m, m.form.handleKey(msg, m.store, m.editing, m.logger)
		}
		return m, m.list.handleKey(msg, m.store, m.logger)
	}

	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Todo") + "\n\n")
	m.form.view(&b, m.editing != nil, m.focus == focusForm)
	b.WriteString("\n")
	m.list.view(&b, m.width, m.focus == focusList)
	b.WriteString("\n")
	writeHelp(&b, m.focus)
	return b.String()
}

func waitForTasks(ch <-chan []todo.Task) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		tasks, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return tasksMsg(tasks)
	}
}

func writeHelp(b *strings.Builder, f focus) {
	var help string
	if f == focusForm {
		help = "tab switch field | enter save | esc cancel | ctrl+c quit"
	} else {
		help = "↑/k ↓/j move | space/x toggle | e edit | n new | d delete | c clear completed | q quit"
	}
	b.WriteString(helpStyle.Render(help) + "\n")
}
