// Package ui holds the terminal-facing helpers: colored messages, unit file
// highlighting, interactive prompts and the external editor.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorEnabled decides once whether output to w should be colored.
// The --no-color flag, NO_COLOR, TERM=dumb and a non-terminal w all disable it.
func ColorEnabled(noColorFlag bool, w io.Writer, lookupEnv func(string) (string, bool)) bool {
	if noColorFlag {
		return false
	}
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if _, set := lookupEnv("NO_COLOR"); set {
		return false
	}
	if term, _ := lookupEnv("TERM"); term == "dumb" {
		return false
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes user-facing messages. Messages go to Out, warnings and errors to Err.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	color bool

	success *color.Color
	failure *color.Color
	warning *color.Color
	info    *color.Color
	dim     *color.Color
	path    *color.Color
	unit    *color.Color
	header  *color.Color
	key     *color.Color
	bold    *color.Color
}

// NewPrinter creates a Printer. The color decision is fixed for its lifetime.
func NewPrinter(out, errOut io.Writer, enableColor bool) *Printer {
	p := &Printer{
		Out:     out,
		Err:     errOut,
		color:   enableColor,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan),
		dim:     color.New(color.Faint),
		path:    color.New(color.FgBlue),
		unit:    color.New(color.FgMagenta, color.Bold),
		header:  color.New(color.FgCyan, color.Bold),
		key:     color.New(color.FgGreen),
		bold:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.success, p.failure, p.warning, p.info, p.dim, p.path, p.unit, p.header, p.key, p.bold} {
		if enableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Color reports whether this printer emits ANSI colors.
func (p *Printer) Color() bool {
	return p.color
}

// Success prints "✓ msg" to Out.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", p.success.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Info prints "→ msg" to Out.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", p.info.Sprint("→"), fmt.Sprintf(format, args...))
}

// Warning prints "Warning: msg" to Err.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", p.warning.Sprint("Warning:"), fmt.Sprintf(format, args...))
}

// Error prints "Error: msg" to Err.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", p.failure.Sprint("Error:"), fmt.Sprintf(format, args...))
}

// Hint prints a dimmed "Hint: msg" line to Err.
func (p *Printer) Hint(format string, args ...any) {
	fmt.Fprintln(p.Err, p.dim.Sprint("Hint: "+fmt.Sprintf(format, args...)))
}

// Println prints a plain line to Out.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.Out, a...)
}

// Printf prints to Out.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.Out, format, args...)
}

// Path styles a filesystem path.
func (p *Printer) Path(s string) string { return p.path.Sprint(s) }

// Unit styles a unit name.
func (p *Printer) Unit(s string) string { return p.unit.Sprint(s) }

// Bold styles s in bold.
func (p *Printer) Bold(s string) string { return p.bold.Sprint(s) }

// Dim styles s faint.
func (p *Printer) Dim(s string) string { return p.dim.Sprint(s) }

// Good styles s as a success.
func (p *Printer) Good(s string) string { return p.success.Sprint(s) }

// Bad styles s as a failure.
func (p *Printer) Bad(s string) string { return p.failure.Sprint(s) }

// Warn styles s as a warning.
func (p *Printer) Warn(s string) string { return p.warning.Sprint(s) }

// HighlightUnit colors unit file text: comments dim, section headers cyan,
// directive keys green. Without color the text is returned unchanged.
func (p *Printer) HighlightUnit(content string) string {
	if !p.color {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, ";"):
			lines[i] = p.dim.Sprint(line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			lines[i] = p.header.Sprint(line)
		default:
			if key, value, ok := strings.Cut(line, "="); ok {
				lines[i] = p.key.Sprint(key) + "=" + value
			}
		}
	}
	return strings.Join(lines, "\n")
}
