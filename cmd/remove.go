package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
)

// RemoveOptions holds remove command options.
type RemoveOptions struct {
	System bool
	Force  bool
}

// RemoveCommand represents the remove command.
type RemoveCommand struct{}

// NewRemoveCommand creates a new RemoveCommand.
func NewRemoveCommand() *RemoveCommand {
	return &RemoveCommand{}
}

// GetCobraCommand returns the cobra command for removing a unit.
func (c *RemoveCommand) GetCobraCommand() *cobra.Command {
	var opts RemoveOptions

	removeCmd := &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Stop, disable and delete a unit",
		Long: `Stop, disable and delete a unit file, then reload systemd.

Removal is confirmed first, with a stronger prompt for units mkunit did not create.`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			return checkName(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		ValidArgsFunction: completeUnitNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	removeCmd.Flags().BoolVar(&opts.System, "system", false, "Remove a system unit")
	removeCmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Do not ask for confirmation")

	return removeCmd
}

// Run executes the remove command with injected dependencies.
func (c *RemoveCommand) Run(ctx context.Context, app *App, opts RemoveOptions, deps CommonDeps, name string) error {
	scope := paths.ScopeFor(opts.System)
	path, err := app.Resolver.FindUnit(name, scope)
	if err != nil {
		return err
	}
	unitName := paths.UnitNameFromPath(path)
	p := app.Printer

	if !opts.Force {
		label := fmt.Sprintf("Remove unit '%s'?", unitName)
		if !app.Resolver.IsMkunitCreated(path) {
			label = fmt.Sprintf("Unit '%s' was not created by mkunit. Remove anyway?", unitName)
		}
		confirmed, err := app.Prompter.ConfirmOrAbort(label, false)
		if err != nil {
			return err
		}
		if !confirmed {
			p.Info("Cancelled")
			return nil
		}
	}

	if app.Config.DryRun {
		p.Printf("Would run: %s\n", systemctlLine(scope, "stop", unitName))
		p.Printf("Would run: %s\n", systemctlLine(scope, "disable", unitName))
		p.Printf("Would remove: %s\n", path)
		p.Printf("Would run: %s\n", systemctlLine(scope, "daemon-reload"))
		return nil
	}

	ctx, cancel := app.WithTimeout(ctx)
	defer cancel()
	manager := app.Manager(scope)

	if active, err := manager.IsActive(ctx, unitName); err != nil {
		deps.Logger.Debug("Could not read active state", "unit", unitName, "error", err)
	} else if active {
		if err := manager.Stop(ctx, unitName); err != nil {
			return err
		}
		p.Info("Stopped %s", unitName)
	}

	if enabled, err := manager.IsEnabled(ctx, unitName); err != nil {
		deps.Logger.Debug("Could not read enablement", "unit", unitName, "error", err)
	} else if enabled {
		if err := manager.Disable(ctx, unitName); err != nil {
			return err
		}
		p.Info("Disabled %s", unitName)
	}

	if err := app.FSService.RemoveUnitFile(path); err != nil {
		return err
	}
	if err := manager.Reload(ctx); err != nil {
		return err
	}

	p.Success("Removed %s", unitName)
	return nil
}
