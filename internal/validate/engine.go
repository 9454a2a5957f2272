// Package validate checks unit files: a line-oriented structural and semantic
// engine, an optional systemd-analyze pass and host requirement checks.
package validate

import (
	"fmt"
	"slices"
	"strings"
)

// Severity classifies an issue. Only SeverityError fails a report.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Issue is a single finding tied to a 1-based source line.
type Issue struct {
	Severity   Severity `json:"severity" yaml:"severity"`
	Line       int      `json:"line" yaml:"line"`
	Message    string   `json:"message" yaml:"message"`
	Suggestion string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("Line %d: %s", i.Line, i.Message)
}

// Report holds issues in source-line order.
type Report struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// Passed reports whether no error-severity issue was found.
func (r *Report) Passed() bool {
	return len(r.Errors()) == 0
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// Err returns a *ValidationError when the report failed and nil otherwise.
func (r *Report) Err() error {
	if r.Passed() {
		return nil
	}
	return &ValidationError{Errors: r.Errors(), Warnings: r.Warnings()}
}

func (r *Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

func (r *Report) add(sev Severity, line int, suggestion, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity:   sev,
		Line:       line,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestion,
	})
}

// ValidationError aggregates the error-severity issues of a failed report.
type ValidationError struct {
	Errors   []Issue
	Warnings []Issue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d error(s), %d warning(s)", len(e.Errors), len(e.Warnings))
}

// KnownSections are the section names the engine recognizes.
var KnownSections = []string{"Unit", "Service", "Timer", "Path", "Socket", "Mount", "Target", "Install"}

var execKeys = map[string]bool{
	"ExecStart":     true,
	"ExecStartPre":  true,
	"ExecStartPost": true,
}

// execPrefixes are the special executable prefixes systemd accepts before the command path.
const execPrefixes = "-+!:@"

// Check scans unit text line by line and returns every issue found.
// The scan never stops early, so a report is always complete.
func Check(text string) *Report {
	report := &Report{}
	inSection := false

	for i, raw := range strings.Split(text, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				report.add(SeverityError, lineNum, "close the header with ']'", "Malformed section header: %s", line)
				continue
			}
			name := line[1 : len(line)-1]
			inSection = true
			if !slices.Contains(KnownSections, name) {
				report.add(SeverityWarning, lineNum, "known sections are "+strings.Join(KnownSections, ", "), "Unknown section [%s]", name)
			}
			continue
		}

		if !inSection {
			report.add(SeverityWarning, lineNum, "add a section header such as [Unit] above this line", "Content outside of section: %s", line)
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			report.add(SeverityError, lineNum, "directives take the form Key=Value", "Invalid syntax (missing '='): %s", line)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if execKeys[key] {
			command := strings.TrimLeft(value, execPrefixes)
			first := ""
			if fields := strings.Fields(command); len(fields) > 0 {
				first = fields[0]
			}
			if !strings.HasPrefix(first, "/") && !strings.HasPrefix(first, "$") {
				report.add(SeverityWarning, lineNum, "use the full path to the executable", "Exec path is not absolute: %s", first)
			}
		}

		if key == "WorkingDirectory" && !strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "~") {
			report.add(SeverityWarning, lineNum, "use an absolute path or ~", "WorkingDirectory is not absolute: %s", value)
		}
	}

	return report
}
