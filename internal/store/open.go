package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MihkelHunter/tasklist/internal/config"
)

// Open returns the KV backend described by cfg. SQLite parent directories are
// created as needed.
func Open(cfg config.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.DSN); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		return OpenSQL("sqlite", cfg.DSN)
	case "mysql":
		return OpenSQL("mysql", cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// OpenRepository opens the configured backend and wraps it as a task
// repository.
func OpenRepository(cfg config.StorageConfig) (*TaskRepository, error) {
	kv, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewTaskRepository(kv, cfg.Key), nil
}
