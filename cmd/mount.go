package cmd

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	sdunit "github.com/coreos/go-systemd/v22/unit"
	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/unit"
)

// MountOptions holds mount command options.
type MountOptions struct {
	CreateOptions
	User        bool
	What        string
	Where       string
	Type        string
	Options     string
	Description string
	WantedBy    string
}

// MountCommand represents the mount unit creation command.
type MountCommand struct{}

// NewMountCommand creates a new MountCommand.
func NewMountCommand() *MountCommand {
	return &MountCommand{}
}

// GetCobraCommand returns the cobra command for creating mount units.
func (c *MountCommand) GetCobraCommand() *cobra.Command {
	var opts MountOptions

	mountCmd := &cobra.Command{
		Use:   "mount [NAME]",
		Short: "Create a mount unit",
		Long: `Create a mount unit. Mount units are system units unless --user is given.

systemd requires a mount unit to be named after its mount point, so NAME is
optional and derived from --where when omitted.`,
		Example: `  mkunit mount --what /dev/sdb1 --where /mnt/data --type ext4
  mkunit mount --what server:/export --where /srv/nfs -t nfs --options _netdev`,
		Args: maximumArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return checkName(strings.TrimSuffix(args[0], unit.Mount.Extension()))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), name)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := mountCmd.Flags()
	f.StringVar(&opts.What, "what", "", "Device, remote share or file to mount")
	f.StringVar(&opts.Where, "where", "", "Absolute mount point")
	f.StringVarP(&opts.Type, "type", "t", "", "File system type")
	f.StringVar(&opts.Options, "options", "", "Mount options")
	f.StringVarP(&opts.Description, "description", "d", "", "Unit description")
	f.StringVar(&opts.WantedBy, "wanted-by", "multi-user.target", "Install target")
	f.BoolVar(&opts.User, "user", false, "Create a user unit instead of a system unit")
	addScopedCreateFlags(mountCmd, &opts.CreateOptions, false, true)

	return mountCmd
}

// MountUnitName returns the unit name systemd requires for a mount point, without extension.
func MountUnitName(where string) string {
	return sdunit.UnitNamePathEscape(path.Clean(where))
}

// Run executes the mount command with injected dependencies.
func (c *MountCommand) Run(ctx context.Context, app *App, opts MountOptions, deps CommonDeps, name string) error {
	var err error
	if opts.User {
		opts.System = false
	}

	if opts.What == "" {
		if opts.What, err = app.Prompter.Required("Source device/path"); err != nil {
			return err
		}
	}
	if opts.Where == "" {
		if opts.Where, err = app.Prompter.Required("Mount point"); err != nil {
			return err
		}
	}

	if err := checkSingleLine(
		"what", opts.What,
		"where", opts.Where,
		"type", opts.Type,
		"options", opts.Options,
		"description", opts.Description,
		"wanted-by", opts.WantedBy,
	); err != nil {
		return err
	}
	if !filepath.IsAbs(opts.Where) {
		return invalidArgf("mount point '%s' must be an absolute path", opts.Where)
	}

	expected := MountUnitName(opts.Where)
	var warnings []preflightWarning
	if name == "" {
		name = expected
	} else {
		name = strings.TrimSuffix(name, unit.Mount.Extension())
		if name != expected {
			warnings = append(warnings, preflightWarning{
				Message: "Mount unit name '" + name + unit.Mount.Extension() + "' does not match mount point '" + opts.Where + "'",
				Hint:    "systemd only loads this mount as " + expected + unit.Mount.Extension(),
			})
		}
	}

	rec := unit.NewMountRecord(opts.What, path.Clean(opts.Where))
	if opts.Description != "" {
		rec.Description = opts.Description
	}
	rec.FSType = opts.Type
	rec.Options = opts.Options
	rec.WantedBy = opts.WantedBy

	deps.Logger.Debug("Creating mount unit", "name", name, "where", rec.Where)
	return createUnit(ctx, app, unitRequest{Name: name, Kind: unit.Mount, Record: rec, Warnings: warnings}, opts.CreateOptions)
}
