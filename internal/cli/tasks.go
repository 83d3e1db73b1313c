package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MihkelHunter/tasklist/internal/app"
	"github.com/MihkelHunter/tasklist/internal/todo"
	"github.com/MihkelHunter/tasklist/internal/tui"
)

func newAddCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Example: `  mktodo add Buy milk
  mktodo add "Walk the dog"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd.ErrOrStderr(), func(a *app.App) error {
				t, err := a.Service.Add(strings.Join(args, " "))
				if err != nil {
					return err
				}
				if t.ID == 0 {
					// Blank text: nothing to add.
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %d  %s\n", t.ID, t.Text)
				return nil
			})
		},
	}
}

func newListCmd(opts *app.Options) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd.ErrOrStderr(), func(a *app.App) error {
				a.Service.SetFilter(todo.ParseFilter(filter))
				writeList(cmd.OutOrStdout(), a.Service.Snapshot())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active or completed")
	return cmd
}

// writeList prints one line per visible task, or the empty-state message,
// followed by the remaining count.
func writeList(w io.Writer, s todo.State) {
	visible := s.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(w, todo.EmptyMessage(s.Filter))
	}
	for _, t := range visible {
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(w, "%d  [%s] %s\n", t.ID, box, singleLine(t.Text))
	}
	fmt.Fprintln(w, todo.RemainingLabel(s.Remaining()))
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// idCommand builds a command that takes a task id as its first argument.
// Unknown ids are reported but are not errors.
func idCommand(opts *app.Options, use, short string, args cobra.PositionalArgs, fn func(a *app.App, cmd *cobra.Command, t todo.Task, rest []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			id, err := parseID(argv[0])
			if err != nil {
				return err
			}
			return withApp(opts, cmd.ErrOrStderr(), func(a *app.App) error {
				t, ok := a.Service.Get(id)
				if !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "no task with id %d\n", id)
					return nil
				}
				return fn(a, cmd, t, argv[1:])
			})
		},
	}
}

func newToggleCmd(opts *app.Options) *cobra.Command {
	return idCommand(opts, "toggle <id>", "Flip a task between active and completed", cobra.ExactArgs(1),
		func(a *app.App, cmd *cobra.Command, t todo.Task, _ []string) error {
			if err := a.Service.Toggle(t.ID); err != nil {
				return err
			}
			state := "active"
			if !t.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", t.ID, state)
			return nil
		})
}

func newEditCmd(opts *app.Options) *cobra.Command {
	return idCommand(opts, "edit <id> <text...>", "Replace a task's text", cobra.MinimumNArgs(2),
		func(a *app.App, cmd *cobra.Command, t todo.Task, rest []string) error {
			if err := a.Service.Edit(t.ID, strings.Join(rest, " ")); err != nil {
				return err
			}
			updated, _ := a.Service.Get(t.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", updated.ID, updated.Text)
			return nil
		})
}

func newRmCmd(opts *app.Options) *cobra.Command {
	cmd := idCommand(opts, "rm <id>", "Delete a task", cobra.ExactArgs(1),
		func(a *app.App, cmd *cobra.Command, t todo.Task, _ []string) error {
			if err := a.Service.Delete(t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", t.ID)
			return nil
		})
	cmd.Aliases = []string{"delete"}
	return cmd
}

func newClearCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd.ErrOrStderr(), func(a *app.App) error {
				n, err := a.Service.ClearCompleted()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d\n", n)
				return nil
			})
		},
	}
}

func newTUICmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would tear the alternate screen.
			return withApp(opts, io.Discard, func(a *app.App) error {
				return tui.Run(cmd.Context(), a.Service, a.Logger)
			})
		},
	}
}
