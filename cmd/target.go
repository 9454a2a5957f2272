package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/unit"
)

// TargetOptions holds target command options.
type TargetOptions struct {
	CreateOptions
	Description string
	Wants       []string
	Requires    []string
	After       string
	WantedBy    string
}

// TargetCommand represents the target unit creation command.
type TargetCommand struct{}

// NewTargetCommand creates a new TargetCommand.
func NewTargetCommand() *TargetCommand {
	return &TargetCommand{}
}

// GetCobraCommand returns the cobra command for creating target units.
func (c *TargetCommand) GetCobraCommand() *cobra.Command {
	var opts TargetOptions

	targetCmd := &cobra.Command{
		Use:     "target NAME",
		Short:   "Create a target unit",
		Long:    `Create a target unit that groups other units.`,
		Example: `  mkunit target stack --wants web.service --wants worker.service`,
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

	f := targetCmd.Flags()
	f.StringVarP(&opts.Description, "description", "d", "", "Unit description")
	f.StringArrayVar(&opts.Wants, "wants", nil, "Unit to pull in (repeatable)")
	f.StringArrayVar(&opts.Requires, "requires", nil, "Unit to require (repeatable)")
	f.StringVar(&opts.After, "after", "", "Start after these units")
	f.StringVar(&opts.WantedBy, "wanted-by", "default.target", "Install target")
	addCreateFlags(targetCmd, &opts.CreateOptions, false)

	return targetCmd
}

// Run executes the target command with injected dependencies.
func (c *TargetCommand) Run(ctx context.Context, app *App, opts TargetOptions, deps CommonDeps, name string) error {
	wants := strings.Join(opts.Wants, " ")
	requires := strings.Join(opts.Requires, " ")

	if err := checkSingleLine(
		"description", opts.Description,
		"wants", wants,
		"requires", requires,
		"after", opts.After,
		"wanted-by", opts.WantedBy,
	); err != nil {
		return err
	}

	rec := unit.NewTargetRecord(name)
	if opts.Description != "" {
		rec.Description = opts.Description
	}
	rec.Wants = wants
	rec.Requires = requires
	rec.After = opts.After
	rec.WantedBy = opts.WantedBy

	deps.Logger.Debug("Creating target unit", "name", name)
	return createUnit(ctx, app, unitRequest{Name: name, Kind: unit.Target, Record: rec}, opts.CreateOptions)
}
