/*
Copyright © 2025 The mkunit Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package cmd

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/unit"
)

// ListOptions holds list command options.
type ListOptions struct {
	System   bool
	All      bool
	UnitType string
	Output   string
}

// ListEntry describes one unit file in a unit directory.
type ListEntry struct {
	Name     string    `json:"name" yaml:"name"`
	Kind     string    `json:"kind" yaml:"kind"`
	Scope    string    `json:"scope" yaml:"scope"`
	Path     string    `json:"path" yaml:"path"`
	Mkunit   bool      `json:"createdByMkunit" yaml:"createdByMkunit"`
	Modified time.Time `json:"modified" yaml:"modified"`
}

// ListCommand represents the list command.
type ListCommand struct{}

// NewListCommand creates a new ListCommand.
func NewListCommand() *ListCommand {
	return &ListCommand{}
}

func allowedUnitTypes() []string {
	types := []string{"all"}
	for _, t := range unit.Types() {
		types = append(types, t.String())
	}
	return types
}

// GetCobraCommand returns the cobra command for listing units.
func (c *ListCommand) GetCobraCommand() *cobra.Command {
	var opts ListOptions

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List unit files in the unit directory",
		Long: `List the unit files in the user unit directory, the system unit
directory with --system, or both with --all.

Units created by mkunit are marked with ●, all others with ○.`,
		Args: exactArgs(0),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if err := checkEnum("type", opts.UnitType, allowedUnitTypes()); err != nil {
				return err
			}
			return validateOutputFormat(opts.Output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	listCmd.Flags().BoolVar(&opts.System, "system", false, "List system units")
	listCmd.Flags().BoolVarP(&opts.All, "all", "a", false, "List user and system units")
	listCmd.Flags().StringVarP(&opts.UnitType, "type", "t", "all", "Only list units of this kind")
	_ = listCmd.RegisterFlagCompletionFunc("type", fixedCompletion(allowedUnitTypes()))
	addOutputFlag(listCmd, &opts.Output, "text")

	return listCmd
}

// Run executes the list command with injected dependencies.
func (c *ListCommand) Run(_ context.Context, app *App, opts ListOptions, deps CommonDeps) error {
	scopes := []paths.Scope{paths.ScopeFor(opts.System)}
	if opts.All {
		scopes = []paths.Scope{paths.User, paths.System}
	}

	grouped := make(map[paths.Scope][]ListEntry, len(scopes))
	var all []ListEntry
	for _, scope := range scopes {
		entries, err := c.collect(app, scope, opts.UnitType, deps)
		if err != nil {
			return err
		}
		grouped[scope] = entries
		all = append(all, entries...)
	}

	if opts.Output != "text" {
		if all == nil {
			all = []ListEntry{}
		}
		return PrintOutput(app.Printer.Out, opts.Output, all)
	}

	p := app.Printer
	for i, scope := range scopes {
		if i > 0 {
			p.Println()
		}
		title := "User units:"
		if scope == paths.System {
			title = "System units:"
		}
		p.Println(p.Bold(title))

		entries := grouped[scope]
		if len(entries) == 0 {
			p.Println("  No units found")
			continue
		}
		c.printTable(app, entries, deps.Now())
	}

	p.Println()
	p.Println(p.Dim("● = created by mkunit, ○ = other"))
	return nil
}

func (c *ListCommand) collect(app *App, scope paths.Scope, unitType string, deps CommonDeps) ([]ListEntry, error) {
	files, err := app.Resolver.ListUnits(scope)
	if err != nil {
		return nil, err
	}

	var entries []ListEntry
	for _, path := range files {
		kind, ok := unit.TypeOfFile(path)
		if !ok {
			continue
		}
		if unitType != "" && unitType != "all" && kind.String() != unitType {
			continue
		}

		modified, err := app.FSService.ModTime(path)
		if err != nil {
			deps.Logger.Debug("Could not stat unit", "path", path, "error", err)
		}
		entries = append(entries, ListEntry{
			Name:     paths.UnitNameFromPath(path),
			Kind:     kind.String(),
			Scope:    scope.String(),
			Path:     path,
			Mkunit:   app.Resolver.IsMkunitCreated(path),
			Modified: modified,
		})
	}
	return entries, nil
}

func (c *ListCommand) printTable(app *App, entries []ListEntry, now time.Time) {
	tbl := table.New("", "Unit", "Type", "Modified").WithWriter(app.Printer.Out)
	if app.Printer.Color() {
		headerFmt := color.New(color.FgGreen, color.Underline)
		headerFmt.EnableColor()
		columnFmt := color.New(color.FgYellow)
		columnFmt.EnableColor()
		tbl.WithHeaderFormatter(headerFmt.SprintfFunc()).WithFirstColumnFormatter(columnFmt.SprintfFunc())
	}

	for _, e := range entries {
		marker := "○"
		if e.Mkunit {
			marker = "●"
		}
		modified := "unknown"
		if !e.Modified.IsZero() {
			modified = humanize.RelTime(e.Modified, now, "ago", "from now")
		}
		kind := e.Kind
		if t, ok := unit.TypeOfFile(e.Name); ok {
			kind = t.DisplayName()
		}
		tbl.AddRow(marker, e.Name, kind, modified)
	}
	tbl.Print()
}
