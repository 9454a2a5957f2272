package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/unit"
)

// PathOptions holds path command options.
type PathOptions struct {
	CreateOptions
	Unit              string
	Description       string
	PathExists        string
	PathExistsGlob    string
	PathChanged       string
	PathModified      string
	DirectoryNotEmpty string
	MakeDirectory     bool
	WantedBy          string
}

func (o PathOptions) hasWatch() bool {
	return o.PathExists != "" || o.PathExistsGlob != "" || o.PathChanged != "" ||
		o.PathModified != "" || o.DirectoryNotEmpty != ""
}

// PathCommand represents the path unit creation command.
type PathCommand struct{}

// NewPathCommand creates a new PathCommand.
func NewPathCommand() *PathCommand {
	return &PathCommand{}
}

// GetCobraCommand returns the cobra command for creating path units.
func (c *PathCommand) GetCobraCommand() *cobra.Command {
	var opts PathOptions

	pathCmd := &cobra.Command{
		Use:   "path NAME",
		Short: "Create a path unit",
		Long: `Create a path unit that activates another unit when a file system path changes.

At least one watch is required. Without one, a path is prompted for and
watched with PathChanged.`,
		Example: `  mkunit path inbox --path-changed /srv/inbox --unit process-inbox.service`,
		Args:    exactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			return checkName(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := pathCmd.Flags()
	f.StringVarP(&opts.Unit, "unit", "u", "", "Unit to activate (default NAME.service)")
	f.StringVarP(&opts.Description, "description", "d", "", "Unit description")
	f.StringVar(&opts.PathExists, "path-exists", "", "Activate when this path exists")
	f.StringVar(&opts.PathExistsGlob, "path-exists-glob", "", "Activate when a path matching this glob exists")
	f.StringVar(&opts.PathChanged, "path-changed", "", "Activate when this path is closed after writing")
	f.StringVar(&opts.PathModified, "path-modified", "", "Activate on every write to this path")
	f.StringVar(&opts.DirectoryNotEmpty, "directory-not-empty", "", "Activate when this directory contains files")
	f.BoolVar(&opts.MakeDirectory, "make-directory", false, "Create the watched directory if missing")
	f.StringVar(&opts.WantedBy, "wanted-by", "default.target", "Install target")
	addCreateFlags(pathCmd, &opts.CreateOptions, false)

	return pathCmd
}

// Run executes the path command with injected dependencies.
func (c *PathCommand) Run(ctx context.Context, app *App, opts PathOptions, deps CommonDeps, name string) error {
	if !opts.hasWatch() {
		watch, err := app.Prompter.Required("Path to watch")
		if err != nil {
			return err
		}
		opts.PathChanged = watch
	}

	if err := checkSingleLine(
		"unit", opts.Unit,
		"description", opts.Description,
		"path-exists", opts.PathExists,
		"path-exists-glob", opts.PathExistsGlob,
		"path-changed", opts.PathChanged,
		"path-modified", opts.PathModified,
		"directory-not-empty", opts.DirectoryNotEmpty,
		"wanted-by", opts.WantedBy,
	); err != nil {
		return err
	}

	rec := unit.NewPathRecord(name)
	if opts.Description != "" {
		rec.Description = opts.Description
	}
	if opts.Unit != "" {
		rec.Unit = serviceName(opts.Unit)
	}
	rec.PathExists = opts.PathExists
	rec.PathExistsGlob = opts.PathExistsGlob
	rec.PathChanged = opts.PathChanged
	rec.PathModified = opts.PathModified
	rec.DirectoryNotEmpty = opts.DirectoryNotEmpty
	rec.MakeDirectory = opts.MakeDirectory
	rec.WantedBy = opts.WantedBy

	deps.Logger.Debug("Creating path unit", "name", name, "unit", rec.Unit)
	return createUnit(ctx, app, unitRequest{Name: name, Kind: unit.Path, Record: rec}, opts.CreateOptions)
}
