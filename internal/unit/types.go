// Package unit holds the unit type registry, the typed records bound into unit
// templates, the render engine and read-only section parsing of unit files.
package unit

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type is one of the six unit kinds mkunit can generate.
type Type int

const (
	Service Type = iota
	Timer
	Path
	Socket
	Mount
	Target
)

var typeNames = [...]string{
	Service: "service",
	Timer:   "timer",
	Path:    "path",
	Socket:  "socket",
	Mount:   "mount",
	Target:  "target",
}

var titleCaser = cases.Title(language.English)

// Types returns every unit type in registry order.
func Types() []Type {
	return []Type{Service, Timer, Path, Socket, Mount, Target}
}

// String returns the lowercase name of the type, e.g. "service".
func (t Type) String() string {
	if t < Service || t > Target {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Extension returns the filename extension including the leading dot.
func (t Type) Extension() string {
	return "." + t.String()
}

// DisplayName returns the capitalized name used in headings, e.g. "Service".
func (t Type) DisplayName() string {
	return titleCaser.String(t.String())
}

// MarshalText implements encoding.TextMarshaler so types render as names in json and yaml output.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// FromExtension maps an extension, with or without the leading dot, back to its type.
func FromExtension(ext string) (Type, bool) {
	name := strings.TrimPrefix(ext, ".")
	for _, t := range Types() {
		if typeNames[t] == name {
			return t, true
		}
	}
	return 0, false
}

// ParseType parses a lowercase type name such as "timer".
func ParseType(name string) (Type, error) {
	if t, ok := FromExtension(strings.ToLower(name)); ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown unit type %q", name)
}

// TypeOfFile classifies a file name or path by its extension.
func TypeOfFile(name string) (Type, bool) {
	ext := filepath.Ext(name)
	if ext == "" {
		return 0, false
	}
	return FromExtension(ext)
}

// HasKnownExtension reports whether name already ends in one of the six unit extensions.
func HasKnownExtension(name string) bool {
	_, ok := TypeOfFile(name)
	return ok
}
