package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mdt8/internal/bootstrap"
	trackerdto "mdt8/internal/modules/tracker/dto"
	"mdt8/internal/platform/config"
	"mdt8/internal/platform/duration"
	"mdt8/internal/platform/logging"
)

var errNoCommand = errors.New("no command given")

// runtimeError marks failures that happen after arguments were accepted, so
// they are reported without the usage text.
type runtimeError struct{ err error }

func (e runtimeError) Error() string { return e.err.Error() }
func (e runtimeError) Unwrap() error { return e.err }

type rootOptions struct {
	statePath  string
	journalDir string
	verbose    bool
	stderr     io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stderr)
	root.SetArgs(normalizeArgs(args))
	root.SetOut(stdout)
	root.SetErr(stderr)
	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	if errors.Is(err, errNoCommand) {
		_ = root.Help()
		return 1
	}
	_, _ = fmt.Fprintln(stderr, err)
	var failure runtimeError
	if !errors.As(err, &failure) {
		if cmd == nil {
			cmd = root
		}
		_ = cmd.Usage()
	}
	return 1
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stderr: stderr}

	root := &cobra.Command{
		Use:           "mdt8",
		Short:         "MDT8 meditation aid",
		Long:          "Aids in the cultivation of a regular mindfulness meditation practice. Use 'mdt8 start' and 'mdt8 stop' to log meditation time, and 'mdt8 status' to view your meditation time today.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return errNoCommand
		},
	}
	root.PersistentFlags().StringVarP(&opts.statePath, "config", "c", "", "state file to use (default $XDG_CONFIG_HOME/mdt8.json)")
	root.PersistentFlags().StringVar(&opts.journalDir, "journal", "", "directory for daily markdown notes")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newStartCmd(opts))
	root.AddCommand(newStopCmd(opts))
	root.AddCommand(newCancelCmd(opts))
	root.AddCommand(newModCmd(opts))
	root.AddCommand(newGoalCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newReindexCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	return root
}

// normalizeArgs lets "mod -5" through flag parsing by inserting "--" before a
// negative minute count.
func normalizeArgs(args []string) []string {
	valueFlags := map[string]bool{"-c": true, "--config": true, "--journal": true}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return args
		}
		if valueFlags[arg] {
			i++
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if arg != "mod" || i+1 >= len(args) {
			return args
		}
		next := args[i+1]
		if n, err := strconv.Atoi(next); err == nil && n < 0 {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i+1]...)
			out = append(out, "--")
			return append(out, args[i+1:]...)
		}
		return args
	}
	return args
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.New(config.Overrides{
		StatePath:  opts.statePath,
		JournalDir: opts.journalDir,
		Verbose:    opts.verbose,
	})
	if err != nil {
		return nil, runtimeError{err}
	}
	logger := logging.New(opts.stderr, cfg.LogLevel)
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return nil, runtimeError{err}
	}
	return app, nil
}

// sessionCommand runs one tracker operation and prints its outcome. A failed
// operation is reported as text; only a failed save is an error.
func sessionCommand(opts *rootOptions, use, short string, args cobra.PositionalArgs, call func(context.Context, *bootstrap.App, []string) (trackerdto.Result, error), render func(io.Writer, trackerdto.Result)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, positional []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := call(cmd.Context(), app, positional)
			if err != nil {
				return runtimeError{err}
			}
			w := cmd.OutOrStdout()
			printLoadNotice(w, out.LoadErr, out.StatePath)
			render(w, out)
			return nil
		},
	}
}

func printLoadNotice(w io.Writer, loadErr error, statePath string) {
	if loadErr == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Could not load config: %v\nCreating new config at '%s'.\n", loadErr, statePath)
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return sessionCommand(opts, "status", "Prints the day's meditation stats.", cobra.NoArgs,
		func(ctx context.Context, app *bootstrap.App, _ []string) (trackerdto.Result, error) {
			return app.TrackerCLI.Status(ctx)
		},
		func(w io.Writer, out trackerdto.Result) {
			_, _ = fmt.Fprintf(w, "You plan to spend %s per day on mindfulness.\n", duration.Format(out.Goal))
			_, _ = fmt.Fprintf(w, "So far, you've spent %s.\n", duration.Format(out.CompletedToday))
			if out.InSession {
				_, _ = fmt.Fprintf(w, "A session has been running for %s.\n", duration.Clock(out.SessionElapsed))
			}
		})
}

func newStartCmd(opts *rootOptions) *cobra.Command {
	return sessionCommand(opts, "start", "Starts the session timer.", cobra.NoArgs,
		func(ctx context.Context, app *bootstrap.App, _ []string) (trackerdto.Result, error) {
			return app.TrackerCLI.Start(ctx)
		},
		func(w io.Writer, out trackerdto.Result) {
			if out.OpErr != nil {
				_, _ = fmt.Fprintf(w, "Could not start session: %v\n", out.OpErr)
				return
			}
			_, _ = fmt.Fprintln(w, "Started timer.\nRemember to breathe deeply and relax.")
		})
}

func newStopCmd(opts *rootOptions) *cobra.Command {
	return sessionCommand(opts, "stop", "Stops the session timer, adding the time measured to the day's tally.", cobra.NoArgs,
		func(ctx context.Context, app *bootstrap.App, _ []string) (trackerdto.Result, error) {
			return app.TrackerCLI.Stop(ctx)
		},
		func(w io.Writer, out trackerdto.Result) {
			if out.OpErr != nil {
				_, _ = fmt.Fprintf(w, "Could not stop session: %v\n", out.OpErr)
				return
			}
			_, _ = fmt.Fprintln(w, "Stopped timer.")
		})
}

func newCancelCmd(opts *rootOptions) *cobra.Command {
	return sessionCommand(opts, "cancel", "Stops the session timer, discarding the time.", cobra.NoArgs,
		func(ctx context.Context, app *bootstrap.App, _ []string) (trackerdto.Result, error) {
			return app.TrackerCLI.Cancel(ctx)
		},
		func(w io.Writer, out trackerdto.Result) {
			if out.OpErr != nil {
				_, _ = fmt.Fprintf(w, "Could not cancel session: %v\n", out.OpErr)
				return
			}
			_, _ = fmt.Fprintln(w, "Cancelled ongoing session.")
		})
}

func newModCmd(opts *rootOptions) *cobra.Command {
	var minutes int
	cmd := sessionCommand(opts, "mod <minutes>", "Manually add or subtract time from the day's tally.", cobra.ExactArgs(1),
		func(ctx context.Context, app *bootstrap.App, _ []string) (trackerdto.Result, error) {
			return app.TrackerCLI.Mod(ctx, minutes)
		},
		func(w io.Writer, out trackerdto.Result) {
			_, _ = fmt.Fprintf(w, "Modified today's total time by %d minutes.\n", out.Command.Minutes)
		})
	cmd.PreRunE = func(_ *cobra.Command, args []string) error {
		v, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid value %q; must be a negative or positive integer", args[0])
		}
		minutes = int(v)
		return nil
	}
	return cmd
}

func newGoalCmd(opts *rootOptions) *cobra.Command {
	var minutes int
	cmd := sessionCommand(opts, "goal <minutes>", "Sets the daily goal in minutes.", cobra.ExactArgs(1),
		func(ctx context.Context, app *bootstrap.App, _ []string) (trackerdto.Result, error) {
			return app.TrackerCLI.Goal(ctx, minutes)
		},
		func(w io.Writer, out trackerdto.Result) {
			if out.OpErr != nil {
				_, _ = fmt.Fprintf(w, "Could not set goal: %v\n", out.OpErr)
				return
			}
			_, _ = fmt.Fprintf(w, "Set daily goal to %s.\n", duration.Format(out.Goal))
		})
	cmd.PreRunE = func(_ *cobra.Command, args []string) error {
		v, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid goal %q; must be a whole number of minutes", args[0])
		}
		minutes = int(v)
		return nil
	}
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lists recorded days, most recent first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.TrackerCLI.History(cmd.Context(), limit)
			if err != nil {
				return runtimeError{err}
			}
			w := cmd.OutOrStdout()
			printLoadNotice(w, out.LoadErr, out.StatePath)
			if len(out.Days) == 0 {
				_, _ = fmt.Fprintln(w, "No days recorded yet.")
				return nil
			}
			for _, day := range out.Days {
				mark := "missed"
				if day.GoalMet {
					mark = "goal met"
				}
				_, _ = fmt.Fprintf(w, "%s  %-24s %s\n", day.Date.Format("2006-01-02"), duration.Format(day.Completed), mark)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 7, "number of days to show (0 for all)")
	return cmd
}

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuilds the history index and journal from the state file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.TrackerCLI.Reindex(cmd.Context())
			if err != nil {
				return runtimeError{err}
			}
			w := cmd.OutOrStdout()
			printLoadNotice(w, out.LoadErr, out.StatePath)
			_, _ = fmt.Fprintf(w, "Reindexed %d days (%d journal notes).\n", out.Days, out.Journals)
			return nil
		},
	}
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Shows a live view of today's session.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := bootstrap.RunWatch(app); err != nil {
				return runtimeError{err}
			}
			return nil
		},
	}
}
