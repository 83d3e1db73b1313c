package todo

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Repository is the storage contract. The whole ordered task list is loaded
// at startup and saved wholesale after every mutation. Front ends use this
// interface, never a concrete backend.
type Repository interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
	Close() error
}

// Service owns the application state and serializes every reaction to a
// dispatched action: reduce, then save when the task list changed.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	ids    IDGenerator
	state  State
	logger *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to charmbracelet/log's default logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator overrides the id generator seeded from stored tasks.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

// NewService loads the stored task list. Missing or unreadable state is
// logged and replaced by an empty list.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := repo.Load()
	if err != nil {
		s.logger.Warn("stored tasks unreadable, starting empty", "err", err)
		tasks = nil
	}
	s.state = State{Tasks: tasks, Filter: FilterAll}
	if s.ids == nil {
		s.ids = SeedFrom(tasks)
	}
	s.logger.Debug("tasks loaded", "count", len(tasks))
	return s
}

// Dispatch applies a to the state and persists the task list if it changed.
// A failed save is returned but the new state stays applied.
func (s *Service) Dispatch(a Action) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, out := Reduce(s.state, a, s.ids)
	if !out.Changed {
		s.logger.Debug("action ignored", "action", a.Kind, "id", a.ID)
		return out, nil
	}
	s.state = next
	s.logger.Debug("action applied", "action", a.Kind, "id", out.ID, "removed", out.Removed)
	if !out.Persist {
		return out, nil
	}
	if err := s.repo.Save(next.Tasks); err != nil {
		return out, fmt.Errorf("save tasks: %w", err)
	}
	return out, nil
}

// Add appends a task. Blank text is ignored and returns a zero Task.
func (s *Service) Add(text string) (Task, error) {
	out, err := s.Dispatch(Add(text))
	if !out.Changed {
		return Task{}, err
	}
	t, _ := s.Get(out.ID)
	return t, err
}

func (s *Service) Toggle(id int64) error {
	_, err := s.Dispatch(Toggle(id))
	return err
}

func (s *Service) Edit(id int64, text string) error {
	_, err := s.Dispatch(Edit(id, text))
	return err
}

func (s *Service) Delete(id int64) error {
	_, err := s.Dispatch(Delete(id))
	return err
}

func (s *Service) SetFilter(f Filter) {
	// Filter changes never touch storage.
	_, _ = s.Dispatch(SetFilter(f))
}

// ClearCompleted removes every completed task and reports how many went.
func (s *Service) ClearCompleted() (int, error) {
	out, err := s.Dispatch(ClearCompleted())
	return out.Removed, err
}

// Get returns the task with the given id.
func (s *Service) Get(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.state.Index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.state.Tasks[i], true
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Service) All() []Task {
	return s.Snapshot().Tasks
}

// Visible returns the tasks matching the active filter.
func (s *Service) Visible() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Visible()
}

func (s *Service) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Filter
}

// Remaining counts incomplete tasks.
func (s *Service) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Remaining()
}

func (s *Service) Close() error {
	return s.repo.Close()
}
