// Package cmd provides the command line interface for mkunit
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
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/ui"
	"github.com/mkunit/mkunit/internal/validate"
)

// DoctorOptions holds doctor command options.
type DoctorOptions struct {
	Output string
}

// DoctorDeps holds doctor dependencies.
type DoctorDeps struct {
	CommonDeps
	ConfigFile func() string
}

// DoctorCommand represents the doctor command for mkunit CLI.
type DoctorCommand struct{}

// NewDoctorCommand creates a new DoctorCommand.
func NewDoctorCommand() *DoctorCommand {
	return &DoctorCommand{}
}

// CheckResult represents the result of a diagnostic check.
type CheckResult struct {
	Name        string
	Passed      bool
	Message     string
	Suggestions []string
}

// GetCobraCommand returns the cobra command for doctor operations.
func (c *DoctorCommand) GetCobraCommand() *cobra.Command {
	var opts DoctorOptions

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check system health and configuration",
		Long: `Check system health and configuration for mkunit.

The doctor command checks:
- systemd is present and recent enough
- the configuration file, when one is used, is readable
- the user and system unit directories are usable
- an editor can be found for 'mkunit edit'
- systemd-analyze is available for verification`,
		Args: exactArgs(0),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutputFormat(opts.Output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := getApp(cmd)
			deps := c.buildDeps(app)
			return c.Run(cmd.Context(), app, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addOutputFlag(doctorCmd, &opts.Output, "text")

	return doctorCmd
}

// buildDeps creates production dependencies for the doctor command.
func (c *DoctorCommand) buildDeps(app *App) DoctorDeps {
	return DoctorDeps{
		CommonDeps: NewRootDeps(app),
		ConfigFile: app.ConfigProvider.ConfigFileUsed,
	}
}

// Run executes the doctor command with injected dependencies.
func (c *DoctorCommand) Run(ctx context.Context, app *App, opts DoctorOptions, deps DoctorDeps) error {
	ctx, cancel := app.WithTimeout(ctx)
	defer cancel()

	var results []CheckResult
	results = append(results, c.checkSystemRequirements(ctx, app))
	results = append(results, c.checkConfiguration(app, deps))
	results = append(results, c.checkDirectories(app)...)
	results = append(results, c.checkEditor(app, deps))
	results = append(results, c.checkVerifier(app))

	failureCount := 0
	for _, result := range results {
		if !result.Passed {
			failureCount++
		}
	}

	if opts.Output != "text" {
		if err := c.outputStructuredResults(app, opts.Output, results, failureCount); err != nil {
			return err
		}
	} else {
		if app.Config.Verbose {
			c.displayDetailedResults(app.Printer, results)
		} else {
			c.displaySummaryResults(app.Printer, results)
		}
		if failureCount == 0 {
			app.Printer.Success("All checks passed")
		} else if !app.Config.Verbose {
			app.Printer.Printf("\n%d checks failed. Run with --verbose for details.\n", failureCount)
		}
	}

	if failureCount > 0 {
		return fmt.Errorf("doctor found %d issues", failureCount)
	}
	return nil
}

// checkSystemRequirements validates the platform and systemd version.
func (c *DoctorCommand) checkSystemRequirements(ctx context.Context, app *App) CheckResult {
	if err := app.Validator.SystemRequirements(ctx); err != nil {
		return CheckResult{
			Name:    "System Requirements",
			Passed:  false,
			Message: err.Error(),
			Suggestions: []string{
				"mkunit requires Linux with systemd " + fmt.Sprint(validate.MinSystemdVersion) + " or newer",
				"Ensure systemctl is in your PATH",
			},
		}
	}

	message := "systemd is available"
	if version, err := app.Validator.SystemdVersion(ctx); err == nil {
		message = fmt.Sprintf("systemd %d is available (minimum %d)", version.Major, validate.MinSystemdVersion)
	}
	return CheckResult{Name: "System Requirements", Passed: true, Message: message}
}

// checkConfiguration validates the configuration file when one is in use.
func (c *DoctorCommand) checkConfiguration(app *App, deps DoctorDeps) CheckResult {
	configFile := deps.ConfigFile()
	if configFile == "" {
		return CheckResult{
			Name:    "Configuration File",
			Passed:  true,
			Message: "No configuration file found, using defaults",
		}
	}

	if _, err := app.FSService.Fs().Stat(configFile); err != nil {
		return CheckResult{
			Name:    "Configuration File",
			Passed:  false,
			Message: fmt.Sprintf("Configuration file not accessible: %v", err),
			Suggestions: []string{
				"Check file permissions on " + configFile,
				"Verify the file path is correct",
			},
		}
	}
	return CheckResult{
		Name:    "Configuration File",
		Passed:  true,
		Message: fmt.Sprintf("Configuration loaded from %s", configFile),
	}
}

// checkDirectories validates the unit directories of both scopes.
func (c *DoctorCommand) checkDirectories(app *App) []CheckResult {
	results := make([]CheckResult, 0, 2)
	for _, scope := range []paths.Scope{paths.User, paths.System} {
		name := "User Unit Directory"
		if scope == paths.System {
			name = "System Unit Directory"
		}
		results = append(results, c.checkDirectory(app, name, app.Resolver.UnitDir(scope), scope))
	}
	return results
}

// checkDirectory validates a unit directory. A missing directory is created on
// first write, and a system directory is expected to need root.
func (c *DoctorCommand) checkDirectory(app *App, name, path string, scope paths.Scope) CheckResult {
	if path == "" {
		return CheckResult{
			Name:        name,
			Passed:      false,
			Message:     "directory path is empty",
			Suggestions: []string{"Set the unit directory in the configuration file"},
		}
	}

	afs := app.FSService.Fs()
	stat, err := afs.Stat(path)
	if err != nil {
		if exists, _ := afero.Exists(afs, path); !exists {
			return CheckResult{
				Name:    name,
				Passed:  true,
				Message: fmt.Sprintf("%s does not exist yet and will be created on first write", path),
			}
		}
		return CheckResult{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("cannot access directory: %v", err),
		}
	}
	if !stat.IsDir() {
		return CheckResult{
			Name:        name,
			Passed:      false,
			Message:     fmt.Sprintf("path exists but is not a directory: %s", path),
			Suggestions: []string{"Move the file at " + path + " out of the way"},
		}
	}

	probe, err := afero.TempFile(afs, path, ".mkunit-doctor-*")
	if err != nil {
		if scope == paths.System {
			return CheckResult{
				Name:    name,
				Passed:  true,
				Message: fmt.Sprintf("%s is not writable by the current user; use sudo for --system units", path),
			}
		}
		return CheckResult{
			Name:        name,
			Passed:      false,
			Message:     fmt.Sprintf("directory is not writable: %v", err),
			Suggestions: []string{fmt.Sprintf("Fix permissions: chmod u+w %s", path)},
		}
	}
	probePath := probe.Name()
	_ = probe.Close()
	if err := afs.Remove(probePath); err != nil {
		app.Logger.Debug("Failed to clean up probe file", "file", probePath, "error", err)
	}

	return CheckResult{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("Directory accessible at %s", path),
	}
}

// checkEditor validates that the editor used by 'mkunit edit' can be found.
func (c *DoctorCommand) checkEditor(app *App, deps DoctorDeps) CheckResult {
	command := ui.ResolveEditor(deps.Getenv, app.Config.Editor)
	editor := ui.NewEditor(command, app.Runner, app.FSService.Fs(), app.Logger)

	if path, ok := editor.Available(); ok {
		return CheckResult{
			Name:    "Editor",
			Passed:  true,
			Message: fmt.Sprintf("%s (%s)", command, path),
		}
	}
	return CheckResult{
		Name:    "Editor",
		Passed:  false,
		Message: fmt.Sprintf("editor '%s' not found", command),
		Suggestions: []string{
			"Set $VISUAL or $EDITOR",
			"Or set 'editor' in the configuration file",
		},
	}
}

// checkVerifier validates that systemd-analyze is available for verification.
func (c *DoctorCommand) checkVerifier(app *App) CheckResult {
	path, err := app.Runner.LookPath("systemd-analyze")
	switch {
	case err == nil:
		return CheckResult{Name: "Verification", Passed: true, Message: "systemd-analyze found at " + path}
	case !app.Config.Verify:
		return CheckResult{Name: "Verification", Passed: true, Message: "systemd-analyze not found; verification is disabled"}
	default:
		return CheckResult{
			Name:    "Verification",
			Passed:  false,
			Message: "systemd-analyze not found but verification is enabled",
			Suggestions: []string{
				"Install the systemd package that provides systemd-analyze",
				"Or set 'verify: false' in the configuration file",
			},
		}
	}
}

// displaySummaryResults shows only the failed checks.
func (c *DoctorCommand) displaySummaryResults(p *ui.Printer, results []CheckResult) {
	var failed []CheckResult
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}

	if len(failed) > 0 {
		p.Println("Issues found:")
		for _, result := range failed {
			p.Printf("%s %s: %s\n", p.Bad("✗"), result.Name, result.Message)
		}
	}
}

// displayDetailedResults shows every check with its suggestions.
func (c *DoctorCommand) displayDetailedResults(p *ui.Printer, results []CheckResult) {
	p.Println("System Health Check Results:")
	p.Println(strings.Repeat("=", 40))

	for _, result := range results {
		if result.Passed {
			p.Printf("%s %s: %s\n", p.Good("✓"), result.Name, result.Message)
		} else {
			p.Printf("%s %s: %s\n", p.Bad("✗"), result.Name, result.Message)
			if len(result.Suggestions) > 0 {
				p.Println("  Suggestions:")
				for _, suggestion := range result.Suggestions {
					p.Printf("    - %s\n", suggestion)
				}
			}
		}
		p.Println()
	}
}

// outputStructuredResults outputs health check results in structured format (JSON/YAML).
func (c *DoctorCommand) outputStructuredResults(app *App, format string, results []CheckResult, failureCount int) error {
	checks := make([]CheckResultStructured, 0, len(results))
	for _, result := range results {
		status := "failed"
		if result.Passed {
			status = "passed"
		}
		checks = append(checks, CheckResultStructured{
			Name:        result.Name,
			Status:      status,
			Message:     result.Message,
			Suggestions: result.Suggestions,
		})
	}

	overall := "passed"
	if failureCount > 0 {
		overall = "failed"
	}

	return PrintOutput(app.Printer.Out, format, HealthCheckOutput{
		Overall: overall,
		Checks:  checks,
		Summary: map[string]int{
			"total":  len(results),
			"passed": len(results) - failureCount,
			"failed": failureCount,
		},
	})
}
