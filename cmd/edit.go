package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/ui"
)

// EditOptions holds edit command options.
type EditOptions struct {
	System    bool
	NoReload  bool
	NoRestart bool
}

// EditDeps holds edit dependencies.
type EditDeps struct {
	CommonDeps
	NewEditor func(command string) UnitEditor
}

// EditCommand represents the edit command.
type EditCommand struct{}

// NewEditCommand creates a new EditCommand.
func NewEditCommand() *EditCommand {
	return &EditCommand{}
}

// GetCobraCommand returns the cobra command for editing a unit file.
func (c *EditCommand) GetCobraCommand() *cobra.Command {
	var opts EditOptions

	editCmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Open a unit file in an editor",
		Long: `Open a unit file in $VISUAL, $EDITOR or the configured editor.

When the file changed, systemd is reloaded and an active unit may be restarted.`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			return checkName(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			deps := c.buildDeps(app)
			return c.Run(cmd.Context(), app, opts, deps, args[0])
		},
		ValidArgsFunction: completeUnitNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	editCmd.Flags().BoolVar(&opts.System, "system", false, "Edit a system unit")
	editCmd.Flags().BoolVar(&opts.NoReload, "no-reload", false, "Do not reload systemd after editing")
	editCmd.Flags().BoolVar(&opts.NoRestart, "no-restart", false, "Do not offer to restart an active unit")

	return editCmd
}

func (c *EditCommand) buildDeps(app *App) EditDeps {
	common := NewRootDeps(app)
	return EditDeps{
		CommonDeps: common,
		NewEditor: func(command string) UnitEditor {
			return ui.NewEditor(command, app.Runner, app.FSService.Fs(), app.Logger)
		},
	}
}

// Run executes the edit command with injected dependencies.
func (c *EditCommand) Run(ctx context.Context, app *App, opts EditOptions, deps EditDeps, name string) error {
	scope := paths.ScopeFor(opts.System)
	path, err := app.Resolver.FindUnit(name, scope)
	if err != nil {
		return err
	}

	p := app.Printer
	if app.Config.DryRun {
		p.Printf("Would edit: %s\n", path)
		return nil
	}

	command := ui.ResolveEditor(deps.Getenv, app.Config.Editor)
	p.Info("Editing %s", p.Path(path))

	changed, err := deps.NewEditor(command).Edit(ctx, path, app.Stdio())
	if err != nil {
		return err
	}
	if !changed {
		p.Info("No changes made")
		return nil
	}
	p.Success("File saved")

	unitName := paths.UnitNameFromPath(path)
	manager := app.Manager(scope)

	if !opts.NoReload {
		rctx, cancel := app.WithTimeout(ctx)
		err := manager.Reload(rctx)
		cancel()
		if err != nil {
			return err
		}
		p.Success("Daemon reloaded")
	}

	if opts.NoRestart {
		return nil
	}

	sctx, cancel := app.WithTimeout(ctx)
	defer cancel()

	active, err := manager.IsActive(sctx, unitName)
	if err != nil {
		deps.Logger.Debug("Could not read unit state", "unit", unitName, "error", err)
		return nil
	}
	if !active {
		return nil
	}

	restart, err := app.Prompter.Confirm(fmt.Sprintf("Unit '%s' is active. Restart it?", unitName), true)
	if err != nil || !restart {
		return err
	}
	if err := manager.Restart(sctx, unitName); err != nil {
		return err
	}
	p.Success("Restarted %s", unitName)
	return nil
}
