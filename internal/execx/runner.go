// Package execx provides a testable abstraction for command execution.
package execx

import (
	"context"
	"io"
	"os/exec"
)

// Stdio holds the streams attached to an interactive or streaming command.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Runner defines an interface for executing external commands.
type Runner interface {
	// CombinedOutput executes a command and returns its combined stdout and stderr output.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)

	// Run executes a command with the given streams attached, for editors and log followers.
	Run(ctx context.Context, stdio Stdio, name string, args ...string) error

	// LookPath reports where an executable would be found on PATH.
	LookPath(file string) (string, error)
}

// RealRunner implements Runner using os/exec.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// CombinedOutput executes a command and returns its combined stdout and stderr output.
func (r *RealRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Run executes a command with the given streams attached.
func (r *RealRunner) Run(ctx context.Context, stdio Stdio, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	return cmd.Run()
}

// LookPath reports where an executable would be found on PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
