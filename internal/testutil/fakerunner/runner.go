// Package fakerunner provides a fake implementation of execx.Runner for testing.
package fakerunner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mkunit/mkunit/internal/execx"
)

// Runner is a fake implementation of execx.Runner for testing.
type Runner struct {
	outputs map[string][]byte
	errors  map[string]error
	paths   map[string]string
	calls   []Call
}

// Call represents a captured command execution call.
type Call struct {
	Name string
	Args []string
}

// New creates a new fake runner.
func New() *Runner {
	return &Runner{
		outputs: make(map[string][]byte),
		errors:  make(map[string]error),
		paths:   make(map[string]string),
		calls:   []Call{},
	}
}

// SetOutput sets the output for a specific command.
func (r *Runner) SetOutput(name string, args []string, output []byte) {
	r.outputs[r.makeKey(name, args)] = output
}

// SetError sets the error for a specific command.
func (r *Runner) SetError(name string, args []string, err error) {
	r.errors[r.makeKey(name, args)] = err
}

// SetPath registers an executable for LookPath.
func (r *Runner) SetPath(file, path string) {
	r.paths[file] = path
}

// CombinedOutput implements execx.Runner.
func (r *Runner) CombinedOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, Call{Name: name, Args: args})

	key := r.makeKey(name, args)
	output := r.outputs[key]

	if err, exists := r.errors[key]; exists {
		return output, err
	}

	if output != nil {
		return output, nil
	}

	// Default behavior - return empty output and no error
	return []byte{}, nil
}

// Run implements execx.Runner. Registered output is written to stdio.Out.
func (r *Runner) Run(_ context.Context, stdio execx.Stdio, name string, args ...string) error {
	r.calls = append(r.calls, Call{Name: name, Args: args})

	key := r.makeKey(name, args)
	if output, exists := r.outputs[key]; exists && stdio.Out != nil {
		_, _ = stdio.Out.Write(output)
	}
	return r.errors[key]
}

// LookPath implements execx.Runner.
func (r *Runner) LookPath(file string) (string, error) {
	if path, ok := r.paths[file]; ok {
		return path, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// GetCalls returns all captured command calls.
func (r *Runner) GetCalls() []Call {
	return r.calls
}

// Reset clears all stored outputs, errors, and calls.
func (r *Runner) Reset() {
	r.outputs = make(map[string][]byte)
	r.errors = make(map[string]error)
	r.paths = make(map[string]string)
	r.calls = []Call{}
}

func (r *Runner) makeKey(name string, args []string) string {
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}
