package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/journal"
	"github.com/mkunit/mkunit/internal/paths"
)

// LogsOptions holds logs command options.
type LogsOptions struct {
	System bool
	Follow bool
	Lines  int
	Since  string
}

// LogsCommand represents the logs command.
type LogsCommand struct{}

// NewLogsCommand creates a new LogsCommand.
func NewLogsCommand() *LogsCommand {
	return &LogsCommand{}
}

// GetCobraCommand returns the cobra command for reading unit logs.
func (c *LogsCommand) GetCobraCommand() *cobra.Command {
	var opts LogsOptions

	logsCmd := &cobra.Command{
		Use:   "logs NAME",
		Short: "Show the journal of a unit",
		Long: `Show the journal of a unit through journalctl.

NAME without an extension is taken to be a service.`,
		Example: `  mkunit logs web -f
  mkunit logs backup --since "1 hour ago" -n 200`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.Lines < 0 {
				return invalidArgf("--lines must not be negative")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		ValidArgsFunction: completeUnitNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	logsCmd.Flags().BoolVar(&opts.System, "system", false, "Read the system journal")
	logsCmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Follow new log lines")
	logsCmd.Flags().IntVarP(&opts.Lines, "lines", "n", 50, "Number of lines to show")
	logsCmd.Flags().StringVar(&opts.Since, "since", "", "Show entries since this time (journalctl syntax)")

	return logsCmd
}

// Run executes the logs command with injected dependencies.
func (c *LogsCommand) Run(ctx context.Context, app *App, opts LogsOptions, deps CommonDeps, name string) error {
	unitName := serviceName(name)
	jopts := journal.Options{
		UserMode: paths.ScopeFor(opts.System).UserMode(),
		Lines:    opts.Lines,
		Follow:   opts.Follow,
		Since:    opts.Since,
	}

	deps.Logger.Debug("Reading journal", "unit", unitName, "follow", opts.Follow)
	return app.Journal.Stream(ctx, unitName, jopts, app.Printer.Out, app.Printer.Err)
}
