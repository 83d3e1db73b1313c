// Command web serves the to-do list as a server-rendered HTML page.
// It uses the same todo.Service and storage as the desktop and terminal
// front ends, so the business logic is shared without duplication.
//
// Usage:
//
//	web [-config path] [-addr :8080] [-ephemeral]
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/tasklist/internal/app"
	"github.com/MihkelHunter/tasklist/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.toml")
		addr       = flag.String("addr", "", "listen address (overrides web.addr)")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
		ephemeral  = flag.Bool("ephemeral", false, "keep tasks in memory only")
	)
	flag.Parse()

	opts := app.Options{
		ConfigPath: *configPath,
		LogLevel:   *logLevel,
		Ephemeral:  *ephemeral,
		LogOutput:  os.Stderr,
	}
	if err := run(opts, *addr); err != nil {
		log.Error("web UI stopped", "err", err)
		os.Exit(1)
	}
}

func run(opts app.Options, addr string) error {
	a, err := app.Open(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr == "" {
		addr = a.Config.Web.Addr
	}

	srv, err := server.New(a.Service, a.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, addr)
}
