package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/unit"
	"github.com/mkunit/mkunit/internal/unitgraph"
)

// OrderOptions holds order command options.
type OrderOptions struct {
	System bool
	Output string
}

// OrderEntry is one unit in the computed start order.
type OrderEntry struct {
	Position int      `json:"position" yaml:"position"`
	Name     string   `json:"name" yaml:"name"`
	After    []string `json:"after,omitempty" yaml:"after,omitempty"`
	External []string `json:"external,omitempty" yaml:"external,omitempty"`
}

// OrderCommand represents the order command.
type OrderCommand struct{}

// NewOrderCommand creates a new OrderCommand.
func NewOrderCommand() *OrderCommand {
	return &OrderCommand{}
}

// GetCobraCommand returns the cobra command for ordering installed units.
func (c *OrderCommand) GetCobraCommand() *cobra.Command {
	var opts OrderOptions

	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Show the start order of the units in the unit directory",
		Long: `Show the order in which the units of the unit directory start, derived from
their After=, Before=, Requires= and Wants= directives.

Units referenced but not installed in the directory are listed as external.
Ordering cycles are reported as an error.`,
		Args: exactArgs(0),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutputFormat(opts.Output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	orderCmd.Flags().BoolVar(&opts.System, "system", false, "Order system units")
	addOutputFlag(orderCmd, &opts.Output, "text")

	return orderCmd
}

// Run executes the order command with injected dependencies.
func (c *OrderCommand) Run(_ context.Context, app *App, opts OrderOptions, deps CommonDeps) error {
	scope := paths.ScopeFor(opts.System)
	files, err := app.Resolver.ListUnits(scope)
	if err != nil {
		return err
	}

	units := make(map[string][]byte, len(files))
	for _, path := range files {
		if !unit.HasKnownExtension(path) {
			continue
		}
		content, err := app.FSService.ReadFile(path)
		if err != nil {
			deps.Logger.Warn("Skipping unreadable unit", "path", path, "error", err)
			continue
		}
		units[paths.UnitNameFromPath(path)] = content
	}

	g, err := unitgraph.Build(units)
	if err != nil {
		return err
	}

	p := app.Printer
	order, err := g.Order()
	if err != nil {
		var cycleErr *unitgraph.CycleError
		if errors.As(err, &cycleErr) && opts.Output == "text" {
			for _, cycle := range cycleErr.Cycles {
				p.Error("Ordering cycle: %s", strings.Join(cycle, ", "))
			}
		}
		return err
	}

	entries := make([]OrderEntry, 0, len(order))
	for i, name := range order {
		before, err := g.StartsBefore(name)
		if err != nil {
			return err
		}
		entry := OrderEntry{Position: i + 1, Name: name, After: before}
		if node, ok := g.Node(name); ok {
			entry.External = node.External
		}
		entries = append(entries, entry)
	}

	if opts.Output != "text" {
		return PrintOutput(p.Out, opts.Output, entries)
	}

	if len(entries) == 0 {
		p.Printf("No %s units found in %s\n", scope, app.Resolver.UnitDir(scope))
		return nil
	}

	p.Println(p.Bold("Start order (" + scope.String() + " units):"))
	for _, e := range entries {
		line := "  " + padLeft(e.Position, len(entries)) + ". " + p.Unit(e.Name)
		if len(e.After) > 0 {
			line += "  after " + strings.Join(e.After, ", ")
		}
		if len(e.External) > 0 {
			line += p.Dim("  (external: " + strings.Join(e.External, ", ") + ")")
		}
		p.Println(line)
	}
	return nil
}

// padLeft right-aligns n to the width of total.
func padLeft(n, total int) string {
	return fmt.Sprintf("%*d", len(strconv.Itoa(total)), n)
}
