// Package server serves the browser UI. Every mutating route maps a form post
// to one todo.Action, dispatches it, and redirects back to the page.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/tasklist/internal/todo"
	"github.com/MihkelHunter/tasklist/web"
)

// Server wires HTTP routes to a todo.Service.
type Server struct {
	svc    *todo.Service
	logger *log.Logger
	tmpl   *template.Template
	mux    *http.ServeMux
}

// New builds the route table and parses the page template.
func New(svc *todo.Service, logger *log.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("service is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{svc: svc, logger: logger, tmpl: tmpl, mux: http.NewServeMux()}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /tasks", s.handleAdd)
	s.mux.HandleFunc("POST /tasks/{id}/toggle", s.handleToggle)
	s.mux.HandleFunc("POST /tasks/{id}/delete", s.handleDelete)
	s.mux.HandleFunc("POST /tasks/{id}/edit", s.handleEdit)
	s.mux.HandleFunc("POST /filter", s.handleFilter)
	s.mux.HandleFunc("POST /clear-completed", s.handleClearCompleted)
	s.mux.HandleFunc("GET /api/tasks", s.handleAPITasks)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web UI listening", "addr", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type filterLink struct {
	Value  string
	Title  string
	Active bool
}

type pageData struct {
	Tasks        []todo.Task
	Filters      []filterLink
	EditID       int64
	Empty        string
	Remaining    string
	HasCompleted bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := s.svc.Snapshot()

	data := pageData{
		Tasks:        state.Visible(),
		Empty:        todo.EmptyMessage(state.Filter),
		Remaining:    todo.RemainingLabel(state.Remaining()),
		HasCompleted: state.Remaining() < len(state.Tasks),
	}
	for _, f := range todo.Filters {
		data.Filters = append(data.Filters, filterLink{Value: f.String(), Title: f.Title(), Active: f == state.Filter})
	}
	if id, ok := parseID(r.URL.Query().Get("edit")); ok && state.Index(id) >= 0 {
		data.EditID = id
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, todo.Add(r.FormValue("text")))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.dispatchID(w, r, todo.Toggle)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.dispatchID(w, r, todo.Delete)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("cancel") != "" {
		redirectHome(w, r)
		return
	}
	text := r.FormValue("text")
	s.dispatchID(w, r, func(id int64) todo.Action { return todo.Edit(id, text) })
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, todo.SetFilter(todo.ParseFilter(r.FormValue("filter"))))
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, todo.ClearCompleted())
}

type apiTasks struct {
	Tasks     []todo.Task `json:"tasks"`
	Filter    string      `json:"filter"`
	Remaining int         `json:"remaining"`
}

func (s *Server) handleAPITasks(w http.ResponseWriter, r *http.Request) {
	state := s.svc.Snapshot()
	if q := r.URL.Query().Get("filter"); q != "" {
		state.Filter = todo.ParseFilter(q)
	}
	resp := apiTasks{
		Tasks:     state.Visible(),
		Filter:    state.Filter.String(),
		Remaining: state.Remaining(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode tasks", "err", err)
	}
}

// dispatchID resolves the {id} path value. Ids that do not parse are dropped
// like any other invalid input.
func (s *Server) dispatchID(w http.ResponseWriter, r *http.Request, action func(int64) todo.Action) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		s.logger.Debug("ignoring bad task id", "id", r.PathValue("id"))
		redirectHome(w, r)
		return
	}
	s.dispatch(w, r, action(id))
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, a todo.Action) {
	if _, err := s.svc.Dispatch(a); err != nil {
		// The in-memory state is already updated; keep serving it.
		s.logger.Error("persist tasks", "action", a.Kind, "err", err)
	}
	redirectHome(w, r)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func parseID(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
