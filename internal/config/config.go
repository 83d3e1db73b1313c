// Package config loads mkToDo settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the configuration directory name.
	AppName = "mktodo"

	// ConfigFile is the configuration filename inside the config directory.
	ConfigFile = "config.toml"

	envPrefix = "MKTODO_"
)

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Web     WebConfig     `toml:"web"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects the key-value backend holding the task list.
type StorageConfig struct {
	// Driver is one of "sqlite", "mysql" or "memory".
	Driver string `toml:"driver"`
	// DSN is a file path for sqlite or a go-sql-driver DSN for mysql.
	DSN string `toml:"dsn"`
	// Key is the storage key the task list is written under.
	Key string `toml:"key"`
}

type WebConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration: a SQLite file under
// ~/.todoapp, the web UI on :8080, info-level text logs.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(homeDir(), ".todoapp", "tasks.db"),
			Key:    "todos",
		},
		Web: WebConfig{Addr: ":8080"},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration from defaults, then the TOML file at path,
// then MKTODO_* environment variables. An empty path means DefaultPath, which
// is allowed to be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.Storage.DSN = ExpandHome(cfg.Storage.DSN)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, name string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	set(&c.Storage.Driver, "DRIVER")
	set(&c.Storage.DSN, "DSN")
	set(&c.Storage.Key, "KEY")
	set(&c.Web.Addr, "ADDR")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")
}

// Validate rejects settings no backend can serve.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "mysql":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("storage.driver %q: want sqlite, mysql or memory", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key must not be empty")
	}
	return nil
}

// DefaultDir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	return filepath.Join(homeDir(), ".config", AppName)
}

// DefaultPath returns the path of the default config file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), ConfigFile)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return "."
	}
	return home
}

// ExpandHome replaces a leading ~ with the user home directory.
func ExpandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
