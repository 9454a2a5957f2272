// Package paths computes where unit files live, finds existing units by name
// across the directories of a scope and detects mkunit provenance.
package paths

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mkunit/mkunit/internal/config"
	"github.com/mkunit/mkunit/internal/unit"
)

// Scope selects between per-user and system-wide units.
type Scope int

const (
	User Scope = iota
	System
)

// ScopeFor returns System when system is true and User otherwise.
func ScopeFor(system bool) Scope {
	if system {
		return System
	}
	return User
}

func (s Scope) String() string {
	if s == System {
		return "system"
	}
	return "user"
}

// UserMode reports whether systemctl and friends need --user for this scope.
func (s Scope) UserMode() bool {
	return s == User
}

// Other returns the opposite scope.
func (s Scope) Other() Scope {
	if s == System {
		return User
	}
	return System
}

// Dirs maps each scope to its managed unit directory and its ordered search list.
type Dirs struct {
	UserUnitDir       string
	SystemUnitDir     string
	UserSearchPaths   []string
	SystemSearchPaths []string
}

// DirsFromSettings builds Dirs from loaded configuration.
func DirsFromSettings(cfg *config.Settings) Dirs {
	return Dirs{
		UserUnitDir:       cfg.UserUnitDir,
		SystemUnitDir:     cfg.SystemUnitDir,
		UserSearchPaths:   cfg.UserSearchPaths,
		SystemSearchPaths: cfg.SystemSearchPaths,
	}
}

// Resolver answers path questions for both scopes over a filesystem.
type Resolver struct {
	fs   afero.Fs
	dirs Dirs
}

// NewResolver creates a Resolver reading from fs.
func NewResolver(fs afero.Fs, dirs Dirs) *Resolver {
	return &Resolver{fs: fs, dirs: dirs}
}

// UnitDir returns the directory where units of scope are created and listed.
func (r *Resolver) UnitDir(scope Scope) string {
	if scope == System {
		return r.dirs.SystemUnitDir
	}
	return r.dirs.UserUnitDir
}

// SearchPaths returns the ordered candidate directories for scope.
// The managed unit directory always comes first and duplicates are dropped.
func (r *Resolver) SearchPaths(scope Scope) []string {
	configured := r.dirs.UserSearchPaths
	if scope == System {
		configured = r.dirs.SystemSearchPaths
	}

	seen := make(map[string]bool, len(configured)+1)
	out := make([]string, 0, len(configured)+1)
	for _, dir := range append([]string{r.UnitDir(scope)}, configured...) {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	return out
}

// UnitLocation returns the path a new unit named name of kind would be written to.
// A name that already carries the kind's extension is not extended twice.
func (r *Resolver) UnitLocation(name string, kind unit.Type, scope Scope) string {
	return filepath.Join(r.UnitDir(scope), FileName(name, kind))
}

// FileName returns name with the extension of kind appended when missing.
func FileName(name string, kind unit.Type) string {
	if strings.HasSuffix(name, kind.Extension()) {
		return name
	}
	return name + kind.Extension()
}

// FindUnit resolves an existing unit by name. Without a known extension every
// unit kind is tried in registry order within each search directory.
func (r *Resolver) FindUnit(name string, scope Scope) (string, error) {
	path, searched := r.probe(name, scope)
	if path != "" {
		return path, nil
	}

	notFound := &UnitNotFoundError{Name: name, Scope: scope, Searched: searched}
	if other, _ := r.probe(name, scope.Other()); other != "" {
		notFound.Hint = hintFor(scope.Other(), other)
	}
	return "", notFound
}

func (r *Resolver) probe(name string, scope Scope) (string, []string) {
	candidates := candidateNames(name)
	var searched []string

	for _, dir := range r.SearchPaths(scope) {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			searched = append(searched, path)
			if ok, err := afero.Exists(r.fs, path); err == nil && ok {
				return path, searched
			}
		}
	}
	return "", searched
}

func candidateNames(name string) []string {
	if unit.HasKnownExtension(name) {
		return []string{name}
	}
	names := make([]string, 0, len(unit.Types()))
	for _, t := range unit.Types() {
		names = append(names, name+t.Extension())
	}
	return names
}

func hintFor(scope Scope, path string) string {
	if scope == System {
		return fmt.Sprintf("A system unit exists at %s; add --system to use it", path)
	}
	return fmt.Sprintf("A user unit exists at %s; drop --system to use it", path)
}

// ListUnits returns every entry of the scope's unit directory, sorted by name.
// A missing directory yields an empty list.
func (r *Resolver) ListUnits(scope Scope) ([]string, error) {
	dir := r.UnitDir(scope)
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("listing %s units in %s: %w", scope, dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// IsMkunitCreated reports whether the first line of the file at path is unit.Marker.
// Read failures count as false.
func (r *Resolver) IsMkunitCreated(path string) bool {
	f, err := r.fs.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimRight(line, "\r\n") == unit.Marker
}

// UnitNameFromPath returns the base name of path including its extension.
func UnitNameFromPath(path string) string {
	return filepath.Base(path)
}

// UnitNotFoundError carries every path probed while looking for a unit.
type UnitNotFoundError struct {
	Name     string
	Scope    Scope
	Searched []string
	Hint     string
}

func (e *UnitNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Unit '%s' not found\n\n  Searched:", e.Name)
	for _, path := range e.Searched {
		b.WriteString("\n    ")
		b.WriteString(path)
	}
	return b.String()
}
