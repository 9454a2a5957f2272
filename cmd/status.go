package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/systemd"
)

// StatusOptions holds status command options.
type StatusOptions struct {
	System bool
	Lines  int
	Output string
}

// StatusView is the structured form of the status command output.
type StatusView struct {
	systemd.UnitStatus `yaml:",inline"`
	Logs               []string `json:"logs" yaml:"logs"`
}

// StatusCommand represents the status command.
type StatusCommand struct{}

// NewStatusCommand creates a new StatusCommand.
func NewStatusCommand() *StatusCommand {
	return &StatusCommand{}
}

// GetCobraCommand returns the cobra command for showing unit status.
func (c *StatusCommand) GetCobraCommand() *cobra.Command {
	var opts StatusOptions

	statusCmd := &cobra.Command{
		Use:   "status NAME",
		Short: "Show the runtime status of a unit",
		Long: `Show the runtime status of a unit together with its most recent log lines.

NAME without an extension is taken to be a service.`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.Lines < 0 {
				return invalidArgf("--lines must not be negative")
			}
			return validateOutputFormat(opts.Output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		ValidArgsFunction: completeUnitNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	statusCmd.Flags().BoolVar(&opts.System, "system", false, "Query the system manager")
	statusCmd.Flags().IntVarP(&opts.Lines, "lines", "n", 10, "Number of recent log lines to show")
	addOutputFlag(statusCmd, &opts.Output, "text")

	return statusCmd
}

// Run executes the status command with injected dependencies.
func (c *StatusCommand) Run(ctx context.Context, app *App, opts StatusOptions, deps CommonDeps, name string) error {
	scope := paths.ScopeFor(opts.System)
	unitName := serviceName(name)

	ctx, cancel := app.WithTimeout(ctx)
	defer cancel()

	status, err := app.Manager(scope).Status(ctx, unitName)
	if err != nil {
		return err
	}

	var logs []string
	if opts.Lines > 0 {
		logs = app.Journal.Recent(ctx, unitName, scope.UserMode(), opts.Lines)
	}

	if opts.Output != "text" {
		if logs == nil {
			logs = []string{}
		}
		return PrintOutput(app.Printer.Out, opts.Output, StatusView{UnitStatus: *status, Logs: logs})
	}

	p := app.Printer
	p.Printf("%s %s", c.marker(p.Good, p.Bad, p.Dim, status), p.Unit(status.Name))
	if status.Description != "" {
		p.Printf(" - %s", status.Description)
	}
	p.Println()

	loaded := status.LoadState
	if status.FragmentPath != "" {
		details := []string{status.FragmentPath}
		if status.UnitFileState != "" {
			details = append(details, status.UnitFileState)
		}
		loaded = fmt.Sprintf("%s (%s)", loaded, strings.Join(details, "; "))
	}
	p.Printf("%12s %s\n", "Loaded:", loaded)

	active := fmt.Sprintf("%s (%s)", status.ActiveState, status.SubState)
	switch {
	case status.Active():
		active = p.Good(active)
	case status.Failed():
		active = p.Bad(active)
	}
	if !status.Since.IsZero() {
		active += fmt.Sprintf(" since %s (%s)", status.Since.Format("Mon 2006-01-02 15:04:05 MST"), humanize.RelTime(status.Since, deps.Now(), "ago", "from now"))
	}
	p.Printf("%12s %s\n", "Active:", active)

	if status.MainPID > 0 {
		p.Printf("%12s %d\n", "Main PID:", status.MainPID)
	}
	if status.Failed() && status.Result != "" {
		p.Printf("%12s %s (exit status %d)\n", "Result:", status.Result, status.ExecMainStatus)
	}

	if len(logs) > 0 {
		p.Println()
		for _, line := range logs {
			p.Println(line)
		}
	}
	return nil
}

func (c *StatusCommand) marker(good, bad, dim func(string) string, status *systemd.UnitStatus) string {
	switch {
	case status.Active():
		return good("●")
	case status.Failed():
		return bad("×")
	default:
		return dim("○")
	}
}
