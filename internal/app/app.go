// Package app assembles configuration, logging, storage and the todo service
// the same way for every binary.
package app

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/tasklist/internal/config"
	"github.com/MihkelHunter/tasklist/internal/logging"
	"github.com/MihkelHunter/tasklist/internal/store"
	"github.com/MihkelHunter/tasklist/internal/todo"
)

// App is a loaded configuration plus the service built from it.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Service *todo.Service
}

// Options override values from the config file. Empty fields are ignored.
type Options struct {
	ConfigPath string
	Driver     string
	DSN        string
	Key        string
	LogLevel   string
	// Ephemeral keeps tasks in memory only.
	Ephemeral bool
	// LogOutput defaults to io.Discard when nil.
	LogOutput io.Writer
}

// Open loads configuration, applies opts, opens storage and loads the task
// list. Storage that cannot be opened is replaced by an in-memory store so
// the front ends still start.
func Open(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	logger := logging.New(out, cfg.Log)

	repo, err := store.OpenRepository(cfg.Storage)
	if err != nil {
		logger.Warn("storage unavailable, keeping tasks in memory", "driver", cfg.Storage.Driver, "err", err)
		repo = store.NewTaskRepository(store.NewMemory(), cfg.Storage.Key)
	} else {
		logger.Debug("storage opened", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key)
	}

	svc := todo.NewService(repo, todo.WithLogger(logger))
	return &App{Config: cfg, Logger: logger, Service: svc}, nil
}

func (o Options) apply(cfg *config.Config) {
	if o.Driver != "" {
		cfg.Storage.Driver = o.Driver
	}
	if o.DSN != "" {
		cfg.Storage.DSN = config.ExpandHome(o.DSN)
	}
	if o.Key != "" {
		cfg.Storage.Key = o.Key
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.Ephemeral {
		cfg.Storage.Driver = "memory"
	}
}

// Close releases storage.
func (a *App) Close() error {
	return a.Service.Close()
}
