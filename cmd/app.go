// Package cmd provides the command line interface for mkunit
package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/mkunit/mkunit/internal/config"
	"github.com/mkunit/mkunit/internal/execx"
	"github.com/mkunit/mkunit/internal/fs"
	"github.com/mkunit/mkunit/internal/journal"
	"github.com/mkunit/mkunit/internal/log"
	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/systemd"
	"github.com/mkunit/mkunit/internal/ui"
	"github.com/mkunit/mkunit/internal/validate"
)

// App holds the application dependencies for command line interface.
type App struct {
	Logger         log.Logger
	Config         *config.Settings
	ConfigProvider config.Provider
	Printer        *ui.Printer
	Prompter       ui.Prompter
	Runner         execx.Runner
	FSService      *fs.Service
	Resolver       *paths.Resolver
	Validator      SystemValidator
	Verifier       UnitVerifier
	Journal        JournalReader
	Stdin          io.Reader

	managerFactory func(scope paths.Scope) systemd.Manager
}

// NewApp creates a new App with all dependencies initialized.
func NewApp(logger log.Logger, configProv config.Provider, printer *ui.Printer) *App {
	cfg := configProv.GetConfig()
	osFs := afero.NewOsFs()
	runner := execx.NewRealRunner()
	connFactory := systemd.NewConnectionFactory(logger)

	return &App{
		Logger:         logger,
		Config:         cfg,
		ConfigProvider: configProv,
		Printer:        printer,
		Prompter:       ui.NewTerminalPrompter(cfg.NoInteractive),
		Runner:         runner,
		FSService:      fs.NewService(osFs, logger),
		Resolver:       paths.NewResolver(osFs, paths.DirsFromSettings(cfg)),
		Validator:      validate.NewValidator(logger, runner),
		Verifier:       validate.NewVerifier(logger, runner),
		Journal:        journal.NewReader(runner, logger),
		Stdin:          os.Stdin,
		managerFactory: func(scope paths.Scope) systemd.Manager {
			return systemd.NewLifecycle(connFactory, scope.UserMode(), logger)
		},
	}
}

// Manager returns the systemd manager for a scope.
func (a *App) Manager(scope paths.Scope) systemd.Manager {
	return a.managerFactory(scope)
}

// Stdio returns the streams handed to interactive child processes.
func (a *App) Stdio() execx.Stdio {
	return execx.Stdio{In: a.Stdin, Out: a.Printer.Out, Err: a.Printer.Err}
}

// WithTimeout bounds a systemd or external command call by the configured timeout.
func (a *App) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.Config.CommandTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.Config.CommandTimeout)
}
