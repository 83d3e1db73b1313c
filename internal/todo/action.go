package todo

import "strings"

// ActionKind enumerates the user intents a front end can dispatch.
type ActionKind int

const (
	ActionAdd ActionKind = iota + 1
	ActionToggle
	ActionDelete
	ActionEdit
	ActionSetFilter
	ActionClearCompleted
)

func (k ActionKind) String() string {
	switch k {
	case ActionAdd:
		return "add"
	case ActionToggle:
		return "toggle"
	case ActionDelete:
		return "delete"
	case ActionEdit:
		return "edit"
	case ActionSetFilter:
		return "set_filter"
	case ActionClearCompleted:
		return "clear_completed"
	default:
		return "unknown"
	}
}

// Action is one dispatched user intent. Only the fields relevant to Kind are
// read.
type Action struct {
	Kind   ActionKind
	ID     int64
	Text   string
	Filter Filter
}

func Add(text string) Action { return Action{Kind: ActionAdd, Text: text} }

func Toggle(id int64) Action { return Action{Kind: ActionToggle, ID: id} }

func Delete(id int64) Action { return Action{Kind: ActionDelete, ID: id} }

func Edit(id int64, text string) Action { return Action{Kind: ActionEdit, ID: id, Text: text} }

func SetFilter(f Filter) Action { return Action{Kind: ActionSetFilter, Filter: f} }

func ClearCompleted() Action { return Action{Kind: ActionClearCompleted} }

// Outcome describes what a reduction did.
type Outcome struct {
	// Changed is true when the state differs from the input state.
	Changed bool
	// Persist is true when the task list changed and must be saved.
	Persist bool
	// ID is the id of the task created or touched, if any.
	ID int64
	// Removed counts tasks dropped by delete or clear completed.
	Removed int
}

// Reduce applies a to s and returns the resulting state. s is never mutated.
// Invalid input (empty text, unknown id, unknown kind) yields s unchanged.
func Reduce(s State, a Action, ids IDGenerator) (State, Outcome) {
	switch a.Kind {
	case ActionAdd:
		text := strings.TrimSpace(a.Text)
		if text == "" {
			return s, Outcome{}
		}
		next := s.Clone()
		t := Task{ID: ids.Next(), Text: text}
		next.Tasks = append(next.Tasks, t)
		return next, Outcome{Changed: true, Persist: true, ID: t.ID}

	case ActionToggle:
		i := s.Index(a.ID)
		if i < 0 {
			return s, Outcome{}
		}
		next := s.Clone()
		next.Tasks[i].Completed = !next.Tasks[i].Completed
		return next, Outcome{Changed: true, Persist: true, ID: a.ID}

	case ActionDelete:
		i := s.Index(a.ID)
		if i < 0 {
			return s, Outcome{}
		}
		next := State{Filter: s.Filter, Tasks: make([]Task, 0, len(s.Tasks)-1)}
		next.Tasks = append(next.Tasks, s.Tasks[:i]...)
		next.Tasks = append(next.Tasks, s.Tasks[i+1:]...)
		return next, Outcome{Changed: true, Persist: true, ID: a.ID, Removed: 1}

	case ActionEdit:
		text := strings.TrimSpace(a.Text)
		i := s.Index(a.ID)
		if text == "" || i < 0 || s.Tasks[i].Text == text {
			return s, Outcome{}
		}
		next := s.Clone()
		next.Tasks[i].Text = text
		return next, Outcome{Changed: true, Persist: true, ID: a.ID}

	case ActionSetFilter:
		f := a.Filter
		if f != FilterActive && f != FilterCompleted {
			f = FilterAll
		}
		if f == s.Filter {
			return s, Outcome{}
		}
		next := s.Clone()
		next.Filter = f
		return next, Outcome{Changed: true}

	case ActionClearCompleted:
		next := State{Filter: s.Filter, Tasks: make([]Task, 0, len(s.Tasks))}
		for _, t := range s.Tasks {
			if !t.Completed {
				next.Tasks = append(next.Tasks, t)
			}
		}
		removed := len(s.Tasks) - len(next.Tasks)
		if removed == 0 {
			return s, Outcome{}
		}
		return next, Outcome{Changed: true, Persist: true, Removed: removed}
	}
	return s, Outcome{}
}
