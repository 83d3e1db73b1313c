// Package tui is a terminal front end for the to-do list. Key presses map to
// todo actions dispatched on the shared service.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/tasklist/internal/todo"
)

// RemoveDelay is how long a deleted row stays on screen, dimmed, before it
// is detached.
const RemoveDelay = 300 * time.Millisecond

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366F1"))
	activeTab    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8FAFC")).Background(lipgloss.Color("#6366F1")).Padding(0, 1)
	inactiveTab  = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")).Padding(0, 1)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366F1"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#64748B"))
	removedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// removed is a deleted row kept on screen until its removeDoneMsg arrives.
type removed struct {
	task  todo.Task
	index int
	seq   int
}

type removeDoneMsg struct{ seq int }

// Model is the bubbletea model.
type Model struct {
	svc    *todo.Service
	logger *log.Logger

	state  todo.State
	cursor int
	mode   mode
	input  []rune
	editID int64

	fading  *removed
	fadeSeq int
	errMsg  string
}

// New returns a model showing svc's current state.
func New(svc *todo.Service, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	return &Model{svc: svc, logger: logger, state: svc.Snapshot()}
}

// Run starts the terminal UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, svc *todo.Service, logger *log.Logger) error {
	p := tea.NewProgram(New(svc, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case removeDoneMsg:
		if m.fading != nil && m.fading.seq == msg.seq {
			m.fading = nil
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != modeBrowse {
			return m, m.updateInput(msg)
		}
		return m, m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	visible := m.state.Visible()
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "a", "n":
		m.mode = modeAdd
		m.input = m.input[:0]
	case " ", "x", "enter":
		if t, ok := m.current(visible); ok {
			m.dispatch(todo.Toggle(t.ID))
		}
	case "e":
		if t, ok := m.current(visible); ok {
			m.mode = modeEdit
			m.editID = t.ID
			m.input = []rune(t.Text)
		}
	case "d", "delete":
		if t, ok := m.current(visible); ok {
			return m.remove(t)
		}
	case "tab":
		m.dispatch(todo.SetFilter((m.state.Filter + 1) % todo.Filter(len(todo.Filters))))
	case "1":
		m.dispatch(todo.SetFilter(todo.FilterAll))
	case "2":
		m.dispatch(todo.SetFilter(todo.FilterActive))
	case "3":
		m.dispatch(todo.SetFilter(todo.FilterCompleted))
	case "c":
		m.dispatch(todo.ClearCompleted())
	}
	return nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.commit()
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = m.input[:0]
	case tea.KeyBackspace:
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
	case tea.KeyUp, tea.KeyDown:
		// Moving away from the field is a loss of focus: commit first.
		m.commit()
		if msg.Type == tea.KeyUp {
			m.move(-1)
		} else {
			m.move(1)
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return nil
}

// commit ends add or edit mode, dispatching whatever was typed. Blank input
// is dropped by the reducer.
func (m *Model) commit() {
	text := string(m.input)
	switch m.mode {
	case modeAdd:
		m.dispatch(todo.Add(text))
		if n := len(m.state.Visible()); n > 0 {
			m.cursor = n - 1
		}
	case modeEdit:
		m.dispatch(todo.Edit(m.editID, text))
	}
	m.mode = modeBrowse
	m.input = m.input[:0]
}

func (m *Model) remove(t todo.Task) tea.Cmd {
	index := m.cursor
	if !m.dispatch(todo.Delete(t.ID)) {
		return nil
	}
	m.fadeSeq++
	m.fading = &removed{task: t, index: index, seq: m.fadeSeq}
	seq := m.fadeSeq
	return tea.Tick(RemoveDelay, func(time.Time) tea.Msg { return removeDoneMsg{seq: seq} })
}

// dispatch applies a and refreshes the local snapshot. It reports whether
// the state changed.
func (m *Model) dispatch(a todo.Action) bool {
	out, err := m.svc.Dispatch(a)
	if err != nil {
		m.logger.Error("persist tasks", "action", a.Kind, "err", err)
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
	}
	m.state = m.svc.Snapshot()
	m.clamp()
	return out.Changed
}

func (m *Model) current(visible []todo.Task) (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return todo.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.clamp()
}

func (m *Model) clamp() {
	n := len(m.state.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("mkToDo"))
	b.WriteString("\n\n")

	tabs := make([]string, 0, len(todo.Filters))
	for _, f := range todo.Filters {
		if f == m.state.Filter {
			tabs = append(tabs, activeTab.Render(f.Title()))
		} else {
			tabs = append(tabs, inactiveTab.Render(f.Title()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString("  " + mutedStyle.Render(todo.EmptyMessage(m.state.Filter)) + "\n")
	}
	for _, row := range rows {
		b.WriteString(row + "\n")
	}

	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString("  New task: " + string(m.input) + "█\n\n")
	}
	if m.errMsg != "" {
		b.WriteString("  " + errorStyle.Render("save failed: "+m.errMsg) + "\n")
	}
	b.WriteString("  " + todo.RemainingLabel(m.state.Remaining()) + "\n")
	b.WriteString(mutedStyle.Render(m.help()) + "\n")
	return b.String()
}

func (m *Model) rows() []string {
	visible := m.state.Visible()
	rows := make([]string, 0, len(visible)+1)
	for i, t := range visible {
		if m.fading != nil && m.fading.index == i {
			rows = append(rows, m.fadingRow())
		}
		rows = append(rows, m.row(i, t))
	}
	if m.fading != nil && m.fading.index >= len(visible) {
		rows = append(rows, m.fadingRow())
	}
	return rows
}

func (m *Model) row(i int, t todo.Task) string {
	pointer := "  "
	if i == m.cursor && m.mode != modeAdd {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	text := t.Text
	switch {
	case m.mode == modeEdit && t.ID == m.editID:
		text = string(m.input) + "█"
	case t.Completed:
		text = doneStyle.Render(text)
	}
	return fmt.Sprintf("%s%s %s", pointer, box, text)
}

func (m *Model) fadingRow() string {
	return "  " + removedStyle.Render("[-] "+m.fading.task.Text)
}

func (m *Model) help() string {
	if m.mode != modeBrowse {
		return "  enter save · esc cancel"
	}
	return "  a add · e edit · space toggle · d delete · tab filter · c clear completed · q quit"
}
