package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/systemd"
	"github.com/mkunit/mkunit/internal/ui"
)

// Process exit codes.
const (
	ExitSuccess          = 0
	ExitGeneral          = 1
	ExitInvalidArgs      = 2
	ExitUnitNotFound     = 3
	ExitPermissionDenied = 4
	ExitSystemd          = 5
)

// InvalidArgumentError reports a bad flag, argument or prompted value.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

func invalidArgf(format string, args ...any) error {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var invalid *InvalidArgumentError
	var missing *ui.MissingValueError
	if errors.As(err, &invalid) || errors.As(err, &missing) || errors.Is(err, ui.ErrInteractiveDisabled) {
		return ExitInvalidArgs
	}

	var notFound *paths.UnitNotFoundError
	if errors.As(err, &notFound) {
		return ExitUnitNotFound
	}

	if errors.Is(err, fs.ErrPermission) {
		return ExitPermissionDenied
	}

	var sdErr *systemd.Error
	var connErr *systemd.ConnectionError
	if errors.As(err, &sdErr) || errors.As(err, &connErr) {
		return ExitSystemd
	}

	return ExitGeneral
}

// PrintError reports err on the printer's error stream, including the
// searched locations and hint of a missing unit.
func PrintError(p *ui.Printer, err error) {
	var notFound *paths.UnitNotFoundError
	if errors.As(err, &notFound) {
		p.Error("%s", notFound.Error())
		if notFound.Hint != "" {
			_, _ = fmt.Fprintln(p.Err)
			p.Hint("%s", notFound.Hint)
		}
		return
	}
	p.Error("%s", err)
}

// exactArgs is cobra.ExactArgs reporting an InvalidArgumentError.
func exactArgs(n int) cobra.PositionalArgs {
	return asInvalidArgs(cobra.ExactArgs(n))
}

// maximumArgs is cobra.MaximumNArgs reporting an InvalidArgumentError.
func maximumArgs(n int) cobra.PositionalArgs {
	return asInvalidArgs(cobra.MaximumNArgs(n))
}

func asInvalidArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &InvalidArgumentError{Message: err.Error()}
		}
		return nil
	}
}
