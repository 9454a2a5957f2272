package cmd

import (
	"os"
	"time"

	"github.com/mkunit/mkunit/internal/log"
)

// CommonDeps provides dependencies common across commands.
type CommonDeps struct {
	Logger log.Logger
	Now    func() time.Time
	Getenv func(string) string
	Getwd  func() (string, error)
}

// NewCommonDeps creates production common dependencies.
func NewCommonDeps(logger log.Logger) CommonDeps {
	return CommonDeps{
		Logger: logger,
		Now:    time.Now,
		Getenv: os.Getenv,
		Getwd:  os.Getwd,
	}
}

// NewRootDeps creates common root dependencies for all commands.
func NewRootDeps(app *App) CommonDeps {
	return NewCommonDeps(app.Logger)
}
