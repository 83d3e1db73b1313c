// Package cli implements the mktodo command line: one-shot commands for
// scripting plus the interactive terminal UI.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MihkelHunter/tasklist/internal/app"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRootCmd builds the command tree. Each call returns an independent tree
// so tests can run commands in isolation.
func NewRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "mktodo",
		Short: "A small to-do list for the terminal",
		Long: `mktodo keeps a single ordered to-do list in local storage.

Run "mktodo tui" for the interactive view, or use the one-shot commands
below from scripts. The web and desktop front ends share the same storage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = Version
	root.SetVersionTemplate("mktodo version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "path to config.toml")
	pf.StringVar(&opts.Driver, "driver", "", "storage driver: sqlite, mysql or memory")
	pf.StringVar(&opts.DSN, "dsn", "", "storage DSN (sqlite file path or mysql DSN)")
	pf.StringVar(&opts.Key, "key", "", "storage key holding the task list")
	pf.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&opts.Ephemeral, "ephemeral", false, "keep tasks in memory only")

	root.AddCommand(
		newAddCmd(&opts),
		newListCmd(&opts),
		newToggleCmd(&opts),
		newEditCmd(&opts),
		newRmCmd(&opts),
		newClearCmd(&opts),
		newTUICmd(&opts),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// withApp opens the app for one command and closes it afterwards. Logs go to
// the command's stderr.
func withApp(opts *app.Options, logOut io.Writer, fn func(*app.App) error) error {
	o := *opts
	o.LogOutput = logOut
	a, err := app.Open(o)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}
