package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/fs"
	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/unit"
)

// LinkOptions holds link command options.
type LinkOptions struct {
	System  bool
	Force   bool
	Install bool
	Start   bool
}

// LinkCommand represents the link command.
type LinkCommand struct{}

// NewLinkCommand creates a new LinkCommand.
func NewLinkCommand() *LinkCommand {
	return &LinkCommand{}
}

// GetCobraCommand returns the cobra command for linking an external unit file.
func (c *LinkCommand) GetCobraCommand() *cobra.Command {
	var opts LinkOptions

	linkCmd := &cobra.Command{
		Use:   "link FILE",
		Short: "Symlink a unit file into the unit directory",
		Long: `Symlink a unit file kept elsewhere, for example in a project repository,
into the unit directory and reload systemd.

Linking the same file again is a no-op.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := linkCmd.Flags()
	f.BoolVar(&opts.System, "system", false, "Link into the system unit directory")
	f.BoolVarP(&opts.Force, "force", "f", false, "Replace an existing file or link")
	f.BoolVarP(&opts.Install, "install", "i", false, "Enable the unit after linking it")
	f.BoolVar(&opts.Start, "start", false, "Start the unit after installing it (with --install)")

	return linkCmd
}

// Run executes the link command with injected dependencies.
func (c *LinkCommand) Run(ctx context.Context, app *App, opts LinkOptions, deps CommonDeps, file string) error {
	info, err := app.FSService.Fs().Stat(file)
	if err != nil {
		if fs.IsNotExist(err) {
			return invalidArgf("File not found: %s", file)
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return invalidArgf("Not a file: %s", file)
	}

	filename := filepath.Base(file)
	if filepath.Ext(filename) == "" {
		return invalidArgf("File must have a systemd unit extension (.service, .timer, .path, .socket, .mount, .target)")
	}
	if _, ok := unit.TypeOfFile(filename); !ok {
		return invalidArgf("Unknown unit type: %s. Expected .service, .timer, .path, .socket, .mount, or .target", filepath.Ext(filename))
	}

	source, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", file, err)
	}

	scope := paths.ScopeFor(opts.System)
	target := filepath.Join(app.Resolver.UnitDir(scope), filename)
	p := app.Printer

	if app.FSService.Lexists(target) {
		if !opts.Force {
			if existing, err := app.FSService.Readlink(target); err == nil && existing == source {
				p.Info("Already linked: %s -> %s", target, source)
				return installAndStart(ctx, app, filename, scope, opts.Install, opts.Start)
			}
			return invalidArgf("Target already exists: %s. Use --force to overwrite", target)
		}
		if app.Config.DryRun {
			p.Printf("Would remove existing: %s\n", target)
		}
	}

	if app.Config.DryRun {
		p.Printf("Would create symlink: %s -> %s\n", target, source)
		if !opts.Install {
			p.Printf("Would run: %s\n", systemctlLine(scope, "daemon-reload"))
			return nil
		}
		return installAndStart(ctx, app, filename, scope, opts.Install, opts.Start)
	}

	if err := app.FSService.Symlink(source, target, opts.Force); err != nil {
		return err
	}
	p.Success("Linked %s -> %s", target, source)
	deps.Logger.Debug("Linked unit", "source", source, "target", target)

	if opts.Install {
		return installAndStart(ctx, app, filename, scope, opts.Install, opts.Start)
	}

	rctx, cancel := app.WithTimeout(ctx)
	defer cancel()
	return app.Manager(scope).Reload(rctx)
}
