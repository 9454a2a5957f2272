// Package unitgraph orders installed units by their [Unit] ordering and
// requirement directives.
package unitgraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/mkunit/mkunit/internal/unit"
)

// Node is one installed unit and the ordering directives it declares.
type Node struct {
	Name     string   `json:"name" yaml:"name"`
	After    []string `json:"after,omitempty" yaml:"after,omitempty"`
	Before   []string `json:"before,omitempty" yaml:"before,omitempty"`
	Requires []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	Wants    []string `json:"wants,omitempty" yaml:"wants,omitempty"`
	External []string `json:"external,omitempty" yaml:"external,omitempty"`
}

// CycleError reports units whose ordering directives form a cycle.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Cycles))
	for _, c := range e.Cycles {
		parts = append(parts, strings.Join(c, ", "))
	}
	return fmt.Sprintf("ordering cycle between units: %s", strings.Join(parts, "; "))
}

// Graph is a directed graph of units where an edge a -> b means a starts before b.
type Graph struct {
	g     graph.Graph[string, string]
	nodes map[string]*Node
}

// Build parses each unit's content and links units that reference each other.
// References to units outside the set are kept on the node as External.
func Build(units map[string][]byte) (*Graph, error) {
	ug := &Graph{
		g:     graph.New(graph.StringHash, graph.Directed()),
		nodes: make(map[string]*Node, len(units)),
	}

	names := make([]string, 0, len(units))
	for name := range units {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		node, err := parseNode(name, units[name])
		if err != nil {
			return nil, err
		}
		ug.nodes[name] = node
		if err := ug.g.AddVertex(name); err != nil {
			return nil, fmt.Errorf("adding unit %s: %w", name, err)
		}
	}

	for _, name := range names {
		node := ug.nodes[name]
		external := map[string]bool{}

		for _, dep := range node.startsAfter() {
			if err := ug.link(dep, name, external); err != nil {
				return nil, err
			}
		}
		for _, dep := range node.Before {
			if err := ug.link(name, dep, external); err != nil {
				return nil, err
			}
		}

		for ext := range external {
			node.External = append(node.External, ext)
		}
		sort.Strings(node.External)
	}

	return ug, nil
}

func (ug *Graph) link(first, then string, external map[string]bool) error {
	if first == then {
		return nil
	}
	for _, name := range []string{first, then} {
		if _, ok := ug.nodes[name]; !ok {
			external[name] = true
			return nil
		}
	}
	err := ug.g.AddEdge(first, then)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return fmt.Errorf("linking %s before %s: %w", first, then, err)
	}
	return nil
}

func parseNode(name string, content []byte) (*Node, error) {
	sections, err := unit.ParseSections(content)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	node := &Node{
		Name:     name,
		After:    fields(unit.Lookup(sections, "Unit", "After")),
		Before:   fields(unit.Lookup(sections, "Unit", "Before")),
		Requires: fields(unit.Lookup(sections, "Unit", "Requires")),
		Wants:    fields(unit.Lookup(sections, "Unit", "Wants")),
	}

	// A timer, path or socket activates its unit, so it is ordered first.
	for _, v := range fields(unit.Lookup(sections, "Timer", "Unit")) {
		node.Before = appendUnique(node.Before, v)
	}
	for _, v := range fields(unit.Lookup(sections, "Path", "Unit")) {
		node.Before = appendUnique(node.Before, v)
	}
	for _, v := range fields(unit.Lookup(sections, "Socket", "Service")) {
		node.Before = appendUnique(node.Before, v)
	}

	return node, nil
}

// startsAfter lists the units named by After=, Requires= and Wants=.
func (n *Node) startsAfter() []string {
	deps := make([]string, 0, len(n.After)+len(n.Requires)+len(n.Wants))
	deps = append(deps, n.After...)
	deps = append(deps, n.Requires...)
	return append(deps, n.Wants...)
}

// fields splits space-separated directive values.
func fields(values []string) []string {
	var out []string
	for _, v := range values {
		for _, f := range strings.Fields(v) {
			out = appendUnique(out, f)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// Node returns the parsed node for a unit.
func (ug *Graph) Node(name string) (*Node, bool) {
	n, ok := ug.nodes[name]
	return n, ok
}

// Len returns the number of units in the graph.
func (ug *Graph) Len() int {
	return len(ug.nodes)
}

// Order returns every unit in a start order compatible with its directives,
// breaking ties by name. A cycle yields a *CycleError.
func (ug *Graph) Order() ([]string, error) {
	cycles, err := ug.Cycles()
	if err != nil {
		return nil, err
	}
	if len(cycles) > 0 {
		return nil, &CycleError{Cycles: cycles}
	}

	order, err := graph.StableTopologicalSort(ug.g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("ordering units: %w", err)
	}
	return order, nil
}

// Cycles returns each group of units that depend on each other, sorted by name.
func (ug *Graph) Cycles() ([][]string, error) {
	components, err := graph.StronglyConnectedComponents(ug.g)
	if err != nil {
		return nil, fmt.Errorf("finding cycles: %w", err)
	}

	var cycles [][]string
	for _, c := range components {
		if len(c) < 2 {
			continue
		}
		sort.Strings(c)
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles, nil
}

// StartsBefore returns the installed units that must start before name, sorted.
func (ug *Graph) StartsBefore(name string) ([]string, error) {
	pred, err := ug.g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}
	edges, ok := pred[name]
	if !ok {
		return nil, fmt.Errorf("unknown unit: %s", name)
	}
	deps := make([]string, 0, len(edges))
	for dep := range edges {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps, nil
}
