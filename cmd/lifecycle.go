package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/systemd"
)

// lifecycleAction is one systemctl-style operation on a unit.
type lifecycleAction struct {
	Verb  string
	Short string
	Done  string
	Apply func(m systemd.Manager, ctx context.Context, unitName string) error
}

var lifecycleActions = []lifecycleAction{
	{Verb: "enable", Short: "Enable a unit", Done: "Enabled", Apply: systemd.Manager.Enable},
	{Verb: "disable", Short: "Disable a unit", Done: "Disabled", Apply: systemd.Manager.Disable},
	{Verb: "start", Short: "Start a unit", Done: "Started", Apply: systemd.Manager.Start},
	{Verb: "stop", Short: "Stop a unit", Done: "Stopped", Apply: systemd.Manager.Stop},
	{Verb: "restart", Short: "Restart a unit", Done: "Restarted", Apply: systemd.Manager.Restart},
}

// LifecycleOptions holds options of the lifecycle commands.
type LifecycleOptions struct {
	System bool
}

// LifecycleCommand runs a single lifecycle action against a unit.
type LifecycleCommand struct {
	action lifecycleAction
}

// NewLifecycleCommand creates a new LifecycleCommand for action.
func NewLifecycleCommand(action lifecycleAction) *LifecycleCommand {
	return &LifecycleCommand{action: action}
}

// GetCobraCommand returns the cobra command for the action.
func (c *LifecycleCommand) GetCobraCommand() *cobra.Command {
	var opts LifecycleOptions

	lifecycleCmd := &cobra.Command{
		Use:   c.action.Verb + " NAME",
		Short: c.action.Short,
		Long: c.action.Short + ` through the systemd manager.

NAME without an extension is taken to be a service.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		ValidArgsFunction: completeUnitNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	lifecycleCmd.Flags().BoolVar(&opts.System, "system", false, "Use the system manager")

	return lifecycleCmd
}

// Run executes the lifecycle action with injected dependencies.
func (c *LifecycleCommand) Run(ctx context.Context, app *App, opts LifecycleOptions, deps CommonDeps, name string) error {
	scope := paths.ScopeFor(opts.System)
	unitName := serviceName(name)

	if app.Config.DryRun {
		app.Printer.Printf("Would run: %s\n", systemctlLine(scope, c.action.Verb, unitName))
		return nil
	}

	ctx, cancel := app.WithTimeout(ctx)
	defer cancel()

	deps.Logger.Debug("Running lifecycle action", "action", c.action.Verb, "unit", unitName)
	if err := c.action.Apply(app.Manager(scope), ctx, unitName); err != nil {
		return err
	}
	app.Printer.Success("%s %s", c.action.Done, unitName)
	return nil
}
