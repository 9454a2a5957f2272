// Package journal reads unit logs through journalctl.
package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mkunit/mkunit/internal/execx"
	"github.com/mkunit/mkunit/internal/log"
)

// Options selects which journal entries to print.
type Options struct {
	UserMode bool
	Lines    int // 0 means journalctl's default
	Follow   bool
	Since    string
}

// Reader runs journalctl for a unit.
type Reader struct {
	runner execx.Runner
	logger log.Logger
}

// NewReader creates a new journal reader.
func NewReader(runner execx.Runner, logger log.Logger) *Reader {
	return &Reader{runner: runner, logger: logger}
}

// Args builds the journalctl argument list for a unit.
func Args(unitName string, opts Options) []string {
	var args []string
	if opts.UserMode {
		args = append(args, "--user")
	}
	args = append(args, "--unit", unitName, "--no-pager")
	if opts.Lines > 0 {
		args = append(args, "-n", strconv.Itoa(opts.Lines))
	}
	if opts.Follow {
		args = append(args, "-f")
	}
	if opts.Since != "" {
		args = append(args, "--since", opts.Since)
	}
	return args
}

// Stream copies the unit's journal to out. A follow session ended by
// cancellation or interrupt is not an error.
func (r *Reader) Stream(ctx context.Context, unitName string, opts Options, out, errOut io.Writer) error {
	args := Args(unitName, opts)
	r.logger.Debug("Running journalctl", "unit", unitName, "args", args)

	err := r.runner.Run(ctx, execx.Stdio{Out: out, Err: errOut}, "journalctl", args...)
	if err == nil {
		return nil
	}
	if opts.Follow && (ctx.Err() != nil || isSignalExit(err)) {
		return nil
	}
	return fmt.Errorf("journalctl failed for %s: %w", unitName, err)
}

// Recent returns the last n journal lines of a unit. Missing or failing
// journalctl yields no lines and no error.
func (r *Reader) Recent(ctx context.Context, unitName string, userMode bool, n int) []string {
	args := Args(unitName, Options{UserMode: userMode, Lines: n})
	args = append(args, "--output=short-precise")

	output, err := r.runner.CombinedOutput(ctx, "journalctl", args...)
	if err != nil {
		r.logger.Debug("Could not read journal", "unit", unitName, "error", err)
		return nil
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimRight(string(output), "\n"), "\n") {
		if line == "" || strings.HasPrefix(line, "-- ") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

type exitCoder interface {
	ExitCode() int
}

func isSignalExit(err error) bool {
	var ec exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode() == -1 || ec.ExitCode() == 130
	}
	return false
}
