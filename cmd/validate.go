package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/fs"
	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/validate"
)

// ValidateOptions holds validate command options.
type ValidateOptions struct {
	System bool
	Output string
}

// ValidateResult is the structured form of a validation run.
type ValidateResult struct {
	File     string           `json:"file" yaml:"file"`
	Valid    bool             `json:"valid" yaml:"valid"`
	Errors   []validate.Issue `json:"errors" yaml:"errors"`
	Warnings []validate.Issue `json:"warnings" yaml:"warnings"`
	Verify   string           `json:"verify,omitempty" yaml:"verify,omitempty"`
}

// ValidateCommand represents the validate command.
type ValidateCommand struct{}

// NewValidateCommand creates a new ValidateCommand.
func NewValidateCommand() *ValidateCommand {
	return &ValidateCommand{}
}

// GetCobraCommand returns the cobra command for validating unit files.
func (c *ValidateCommand) GetCobraCommand() *cobra.Command {
	var opts ValidateOptions

	validateCmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a unit file for errors",
		Long: `Check a unit file for structural and semantic errors.

Errors fail the command; warnings are reported but do not. When verification
is enabled in the configuration, the output of systemd-analyze verify is shown
as well. It is informational only.`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutputFormat(opts.Output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	validateCmd.Flags().BoolVar(&opts.System, "system", false, "Verify against the system manager")
	addOutputFlag(validateCmd, &opts.Output, "text")

	return validateCmd
}

// Run executes the validate command with injected dependencies.
func (c *ValidateCommand) Run(ctx context.Context, app *App, opts ValidateOptions, deps CommonDeps, file string) error {
	content, err := app.FSService.ReadFile(file)
	if err != nil {
		if fs.IsNotExist(err) {
			return invalidArgf("File not found: %s", file)
		}
		return err
	}

	deps.Logger.Debug("Validating unit file", "path", file)
	report := validate.Check(string(content))

	var verifyOutput string
	if app.Config.Verify {
		vctx, cancel := app.WithTimeout(ctx)
		verifyOutput, _ = app.Verifier.Verify(vctx, file, paths.ScopeFor(opts.System).UserMode())
		cancel()
	}

	if opts.Output != "text" {
		result := ValidateResult{
			File:     file,
			Valid:    report.Passed(),
			Errors:   emptyIfNil(report.Errors()),
			Warnings: emptyIfNil(report.Warnings()),
			Verify:   verifyOutput,
		}
		if err := PrintOutput(app.Printer.Out, opts.Output, result); err != nil {
			return err
		}
		return report.Err()
	}

	p := app.Printer
	p.Info("Validating %s", p.Path(file))

	for _, issue := range report.Errors() {
		p.Error("%s", issue)
		if issue.Suggestion != "" {
			p.Hint("%s", issue.Suggestion)
		}
	}
	for _, issue := range report.Warnings() {
		p.Warning("%s", issue)
		if issue.Suggestion != "" {
			p.Hint("%s", issue.Suggestion)
		}
	}

	if verifyOutput != "" {
		p.Printf("\nsystemd-analyze verify output:\n%s\n", verifyOutput)
	}

	if err := report.Err(); err != nil {
		return err
	}
	if warnings := len(report.Warnings()); warnings > 0 {
		p.Println()
		p.Warning("%d warning(s)", warnings)
		return nil
	}
	p.Success("Unit file is valid")
	return nil
}

func emptyIfNil(issues []validate.Issue) []validate.Issue {
	if issues == nil {
		return []validate.Issue{}
	}
	return issues
}
