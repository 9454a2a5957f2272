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
	"os"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/config"
	"github.com/mkunit/mkunit/internal/log"
	"github.com/mkunit/mkunit/internal/ui"
)

// RootOptions holds the global flags.
type RootOptions struct {
	Verbose       bool
	DryRun        bool
	NoInteractive bool
	NoColor       bool
	ConfigFile    string
}

// RootCommand represents the root command for mkunit CLI.
type RootCommand struct {
	opts RootOptions
}

// NewRootCommand creates a new RootCommand.
func NewRootCommand() *RootCommand {
	return &RootCommand{}
}

// GetCobraCommand returns the cobra root command for mkunit CLI.
func (c *RootCommand) GetCobraCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mkunit",
		Short: "Create and manage systemd unit files",
		Long: `mkunit creates systemd unit files from a handful of flags and manages them afterwards.

Units are written to the user unit directory unless --system is given. Every file
mkunit writes starts with a provenance marker so it can tell its own units apart
from the rest when listing or removing them.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initApp(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&c.opts.Verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVar(&c.opts.DryRun, "dry-run", false, "Show what would be done without doing it")
	pf.BoolVar(&c.opts.NoInteractive, "no-interactive", false, "Never prompt; fail when a required value is missing")
	pf.BoolVar(&c.opts.NoColor, "no-color", false, "Disable colored output (also NO_COLOR)")
	pf.StringVar(&c.opts.ConfigFile, "config", "", "Path to the configuration file")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &InvalidArgumentError{Message: err.Error()}
	})

	rootCmd.AddCommand(
		NewServiceCommand().GetCobraCommand(),
		NewTimerCommand().GetCobraCommand(),
		NewPathCommand().GetCobraCommand(),
		NewSocketCommand().GetCobraCommand(),
		NewMountCommand().GetCobraCommand(),
		NewTargetCommand().GetCobraCommand(),
		NewValidateCommand().GetCobraCommand(),
		NewShowCommand().GetCobraCommand(),
		NewEditCommand().GetCobraCommand(),
		NewStatusCommand().GetCobraCommand(),
		NewLogsCommand().GetCobraCommand(),
		NewRemoveCommand().GetCobraCommand(),
		NewListCommand().GetCobraCommand(),
		NewLinkCommand().GetCobraCommand(),
		NewOrderCommand().GetCobraCommand(),
		NewConfigCommand().GetCobraCommand(),
		NewDoctorCommand().GetCobraCommand(),
		NewVersionCommand().GetCobraCommand(),
	)
	for _, action := range lifecycleActions {
		rootCmd.AddCommand(NewLifecycleCommand(action).GetCobraCommand())
	}

	return rootCmd
}

// initApp builds the App once per invocation and applies the global flags to it.
func (c *RootCommand) initApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !hasApp(ctx) {
		provider := config.NewDefaultConfigProvider()
		if c.opts.ConfigFile != "" {
			provider.SetConfigFilePath(c.opts.ConfigFile)
		}
		cfg, err := provider.InitConfig()
		if err != nil {
			return err
		}
		c.applyFlags(cfg)

		logger := log.NewLogger(cfg.Verbose)
		printer := ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), ui.ColorEnabled(cfg.NoColor, cmd.OutOrStdout(), nil))
		app := NewApp(logger, provider, printer)

		if cfg.Verbose && provider.ConfigFileUsed() != "" {
			logger.Debug("Using configuration file", "path", provider.ConfigFileUsed())
		}

		cmd.SetContext(context.WithValue(ctx, appContextKey, app))
		return nil
	}

	app := ctx.Value(appContextKey).(*App)
	c.applyFlags(app.Config)
	return nil
}

func (c *RootCommand) applyFlags(cfg *config.Settings) {
	cfg.Verbose = cfg.Verbose || c.opts.Verbose
	cfg.DryRun = cfg.DryRun || c.opts.DryRun
	cfg.NoInteractive = cfg.NoInteractive || c.opts.NoInteractive
	cfg.NoColor = cfg.NoColor || c.opts.NoColor
}

// Execute runs mkunit with the process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	rootCmd := NewRootCommand().GetCobraCommand()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
	PrintError(ui.NewPrinter(os.Stdout, os.Stderr, ui.ColorEnabled(noColor, os.Stderr, nil)), err)
	return ExitCode(err)
}
