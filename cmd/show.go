package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/config"
	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/unit"
)

// ShowOptions holds show command options.
type ShowOptions struct {
	System bool
	Output string
}

// UnitView is the structured form of an installed unit file.
type UnitView struct {
	Name     string         `json:"name" yaml:"name"`
	Kind     string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Path     string         `json:"path" yaml:"path"`
	Scope    string         `json:"scope" yaml:"scope"`
	Mkunit   bool           `json:"createdByMkunit" yaml:"createdByMkunit"`
	Sections []unit.Section `json:"sections" yaml:"sections"`
}

// ShowCommand represents the show command.
type ShowCommand struct{}

// NewShowCommand creates a new ShowCommand.
func NewShowCommand() *ShowCommand {
	return &ShowCommand{}
}

// GetCobraCommand returns the cobra command for showing a unit file.
func (c *ShowCommand) GetCobraCommand() *cobra.Command {
	var opts ShowOptions

	showCmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the contents of a unit file",
		Long: `Print the contents of a unit file.

NAME may omit the extension; every unit kind is tried in turn across the
search directories of the scope.`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			if err := checkName(args[0]); err != nil {
				return err
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

	showCmd.Flags().BoolVar(&opts.System, "system", false, "Look for a system unit")
	addOutputFlag(showCmd, &opts.Output, "text")

	return showCmd
}

// Run executes the show command with injected dependencies.
func (c *ShowCommand) Run(_ context.Context, app *App, opts ShowOptions, deps CommonDeps, name string) error {
	scope := paths.ScopeFor(opts.System)
	path, err := app.Resolver.FindUnit(name, scope)
	if err != nil {
		return err
	}

	content, err := app.FSService.ReadFile(path)
	if err != nil {
		return err
	}
	deps.Logger.Debug("Showing unit", "path", path)

	if opts.Output == "text" {
		p := app.Printer
		p.Println(p.Path(path))
		p.Println()
		p.Printf("%s", p.HighlightUnit(string(content)))
		return nil
	}

	sections, err := unit.ParseSections(content)
	if err != nil {
		return err
	}

	view := UnitView{
		Name:     paths.UnitNameFromPath(path),
		Path:     path,
		Scope:    scope.String(),
		Mkunit:   app.Resolver.IsMkunitCreated(path),
		Sections: sections,
	}
	if kind, ok := unit.TypeOfFile(path); ok {
		view.Kind = kind.String()
	}
	return PrintOutput(app.Printer.Out, opts.Output, view)
}

// completeUnitNames offers the names of units in the user scope, or the system
// scope when --system is set.
func completeUnitNames(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	system, _ := cmd.Flags().GetBool("system")

	resolver, err := completionResolver(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	files, err := resolver.ListUnits(paths.ScopeFor(system))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if unit.HasKnownExtension(f) {
			names = append(names, paths.UnitNameFromPath(f))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completionResolver returns the App's resolver, or one built from the default
// configuration when completion runs before the App exists.
func completionResolver(cmd *cobra.Command) (*paths.Resolver, error) {
	if hasApp(cmd.Context()) {
		return getApp(cmd).Resolver, nil
	}
	cfg, err := config.NewDefaultConfigProvider().InitConfig()
	if err != nil {
		return nil, err
	}
	return paths.NewResolver(afero.NewOsFs(), paths.DirsFromSettings(cfg)), nil
}
