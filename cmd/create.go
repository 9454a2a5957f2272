package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/unit"
	"github.com/mkunit/mkunit/internal/validate"
)

// CreateOptions holds the flags shared by the unit creation commands.
type CreateOptions struct {
	System  bool
	Install bool
	Start   bool
	Output  string
}

// Scope returns the unit scope selected by --system.
func (o CreateOptions) Scope() paths.Scope {
	return paths.ScopeFor(o.System)
}

func addCreateFlags(cmd *cobra.Command, opts *CreateOptions, withStart bool) {
	addScopedCreateFlags(cmd, opts, withStart, false)
}

// addScopedCreateFlags is addCreateFlags with a chosen default for --system.
func addScopedCreateFlags(cmd *cobra.Command, opts *CreateOptions, withStart, systemDefault bool) {
	cmd.Flags().BoolVar(&opts.System, "system", systemDefault, "Create a system unit instead of a user unit")
	cmd.Flags().BoolVarP(&opts.Install, "install", "i", false, "Reload systemd and enable the unit after writing it")
	if withStart {
		cmd.Flags().BoolVar(&opts.Start, "start", false, "Start the unit after installing it (with --install)")
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the unit to this path instead of the unit directory")
}

// unitRequest is a rendered-to-be unit together with its pre-flight findings.
type unitRequest struct {
	Name     string
	Kind     unit.Type
	Record   unit.Record
	Warnings []preflightWarning
}

type preflightWarning struct {
	Message string
	Hint    string
}

// createUnit renders req, writes it (or shows it on a dry run) and optionally
// installs and starts it.
func createUnit(ctx context.Context, app *App, req unitRequest, opts CreateOptions) error {
	content, err := unit.Render(req.Kind, req.Record)
	if err != nil {
		return err
	}

	p := app.Printer
	for _, w := range req.Warnings {
		p.Warning("%s", w.Message)
		if w.Hint != "" {
			p.Hint("%s", w.Hint)
		}
	}

	scope := opts.Scope()
	target := opts.Output
	if target == "" {
		target = app.Resolver.UnitLocation(req.Name, req.Kind, scope)
	}

	if app.Config.DryRun {
		p.Printf("Would write to: %s\n\n", target)
		p.Printf("%s\n", p.HighlightUnit(content))
	} else {
		changed, err := app.FSService.WriteUnitFile(target, []byte(content))
		if err != nil {
			return err
		}
		if changed {
			p.Success("Created %s", target)
		} else {
			p.Info("%s is already up to date", target)
		}
		if app.Config.Verify {
			reportVerification(ctx, app, target, scope, p.Err)
		}
	}

	if opts.Output != "" {
		return nil
	}
	if opts.Start && !opts.Install {
		p.Warning("--start has no effect without --install")
	}
	return installAndStart(ctx, app, paths.FileName(req.Name, req.Kind), scope, opts.Install, opts.Start)
}

func reportVerification(ctx context.Context, app *App, path string, scope paths.Scope, w io.Writer) {
	vctx, cancel := app.WithTimeout(ctx)
	defer cancel()

	output, ran := app.Verifier.Verify(vctx, path, scope.UserMode())
	if !ran || output == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "\nsystemd-analyze verify output:\n%s\n", output)
}

// installAndStart reloads systemd and enables unitName when install is set,
// then starts it when start is also set.
func installAndStart(ctx context.Context, app *App, unitName string, scope paths.Scope, install, start bool) error {
	if !install {
		return nil
	}

	p := app.Printer
	if app.Config.DryRun {
		p.Printf("Would run: %s\n", systemctlLine(scope, "daemon-reload"))
		p.Printf("Would run: %s\n", systemctlLine(scope, "enable", unitName))
		if start {
			p.Printf("Would run: %s\n", systemctlLine(scope, "start", unitName))
		}
		return nil
	}

	ctx, cancel := app.WithTimeout(ctx)
	defer cancel()

	manager := app.Manager(scope)
	if err := manager.Reload(ctx); err != nil {
		return err
	}
	if err := manager.Enable(ctx, unitName); err != nil {
		return err
	}
	p.Success("Enabled %s", unitName)

	if start {
		if err := manager.Start(ctx, unitName); err != nil {
			return err
		}
		p.Success("Started %s", unitName)
	}
	return nil
}

// systemctlLine renders the systemctl invocation equivalent to a lifecycle call.
func systemctlLine(scope paths.Scope, args ...string) string {
	parts := []string{"systemctl"}
	if scope.UserMode() {
		parts = append(parts, "--user")
	}
	return strings.Join(append(parts, args...), " ")
}

// checkName rejects unit names that could escape the unit directory.
func checkName(name string) error {
	if err := validate.UnitName(name); err != nil {
		return &InvalidArgumentError{Message: err.Error()}
	}
	return nil
}

// checkSingleLine takes field, value pairs and rejects any value spanning lines.
func checkSingleLine(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := validate.SingleLine(pairs[i], pairs[i+1]); err != nil {
			return &InvalidArgumentError{Message: err.Error()}
		}
	}
	return nil
}

// checkEnum rejects a flag value outside allowed.
func checkEnum(flag, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalidArgf("invalid value '%s' for --%s (expected one of %s)", value, flag, strings.Join(allowed, ", "))
}

// execPrefixes are the special characters systemd accepts in front of an executable path.
const execPrefixes = "-@:+!"

// preflightExec inspects the executable of an ExecStart= command line.
func preflightExec(afs afero.Fs, exec string) []preflightWarning {
	argv, err := shellwords.Parse(exec)
	if err != nil || len(argv) == 0 {
		argv = strings.Fields(exec)
	}
	if len(argv) == 0 {
		return nil
	}

	program := strings.TrimLeft(argv[0], execPrefixes)
	if strings.HasPrefix(program, "$") {
		return nil
	}
	if !filepath.IsAbs(program) {
		return []preflightWarning{{
			Message: fmt.Sprintf("ExecStart path '%s' is not absolute", program),
			Hint:    "Use absolute paths for reliability",
		}}
	}

	info, err := afs.Stat(program)
	if err != nil {
		return []preflightWarning{{Message: fmt.Sprintf("Executable '%s' not found", program)}}
	}

	if !info.IsDir() && isScript(program) && !hasShebang(afs, program) {
		return []preflightWarning{{
			Message: fmt.Sprintf("Script '%s' may be missing shebang", program),
			Hint:    "Add #!/bin/bash or #!/usr/bin/env python at the start",
		}}
	}
	return nil
}

func isScript(path string) bool {
	switch filepath.Ext(path) {
	case ".sh", ".py":
		return true
	}
	return false
}

func hasShebang(afs afero.Fs, path string) bool {
	f, err := afs.Open(path)
	if err != nil {
		return true
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 2)
	n, _ := io.ReadFull(f, head)
	return n == 2 && string(head) == "#!"
}

// preflightWorkDir warns about an absolute working directory that does not exist.
func preflightWorkDir(afs afero.Fs, dir string) []preflightWarning {
	if dir == "" || !filepath.IsAbs(dir) {
		return nil
	}
	if ok, err := afero.DirExists(afs, dir); err == nil && ok {
		return nil
	}
	return []preflightWarning{{Message: fmt.Sprintf("Working directory '%s' does not exist", dir)}}
}

// serviceName appends .service to a name that carries no unit extension.
func serviceName(name string) string {
	if unit.HasKnownExtension(name) {
		return name
	}
	return name + unit.Service.Extension()
}
