// Package todo defines the core domain model, the action reducer and the
// service every front end talks to. The Repository interface allows swapping
// storage backends (SQLite, MySQL, in-memory) without changing any other layer.
package todo

import (
	"fmt"
	"strings"
)

// Filter restricts which tasks a view shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Title is the label used on filter buttons.
func (f Filter) Title() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// ParseFilter maps a filter name to a Filter. Unknown names yield FilterAll.
func ParseFilter(s string) Filter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return FilterActive
	case "completed", "done":
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Task is the central domain object.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// State is everything a view needs to render: the ordered task list and the
// active filter.
type State struct {
	Tasks  []Task
	Filter Filter
}

// Index returns the position of the task with the given id, or -1.
func (s State) Index(id int64) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Visible returns the tasks matching the current filter, in list order.
func (s State) Visible() []Task {
	out := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if s.Filter.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Remaining counts tasks that are not completed.
func (s State) Remaining() int {
	n := 0
	for _, t := range s.Tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Clone returns a copy whose task slice does not alias s.
func (s State) Clone() State {
	tasks := make([]Task, len(s.Tasks))
	copy(tasks, s.Tasks)
	return State{Tasks: tasks, Filter: s.Filter}
}

// EmptyMessage is the placeholder shown when f matches no tasks.
func EmptyMessage(f Filter) string {
	switch f {
	case FilterActive:
		return "No active tasks left. Nice work!"
	case FilterCompleted:
		return "No completed tasks yet."
	default:
		return "No tasks yet. Add one to get started!"
	}
}

// RemainingLabel formats the remaining-count status line.
func RemainingLabel(n int) string {
	if n == 1 {
		return "1 task left"
	}
	return fmt.Sprintf("%d tasks left", n)
}
