package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/afero"

	"github.com/mkunit/mkunit/internal/execx"
	"github.com/mkunit/mkunit/internal/log"
)

// DefaultEditor is used when neither the environment nor the configuration names one.
const DefaultEditor = "vi"

// ResolveEditor picks the editor command: $VISUAL, then $EDITOR, then configured, then vi.
func ResolveEditor(getenv func(string) string, configured string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, candidate := range []string{getenv("VISUAL"), getenv("EDITOR"), configured} {
		if candidate != "" {
			return candidate
		}
	}
	return DefaultEditor
}

// EditorError reports an editor that could not be launched or exited non-zero.
type EditorError struct {
	Command string
	Cause   error
}

func (e *EditorError) Error() string {
	return fmt.Sprintf("editor '%s' failed: %v", e.Command, e.Cause)
}

func (e *EditorError) Unwrap() error {
	return e.Cause
}

// Editor opens files in the user's editor.
type Editor struct {
	command string
	runner  execx.Runner
	fs      afero.Fs
	logger  log.Logger
}

// NewEditor creates an Editor for the given command line, such as "code --wait".
func NewEditor(command string, runner execx.Runner, fs afero.Fs, logger log.Logger) *Editor {
	return &Editor{command: command, runner: runner, fs: fs, logger: logger}
}

// Command returns the editor command line.
func (e *Editor) Command() string {
	return e.command
}

// Argv splits the editor command line with shell quoting rules.
func (e *Editor) Argv() ([]string, error) {
	argv, err := shellwords.Parse(e.command)
	if err != nil {
		return nil, &EditorError{Command: e.command, Cause: err}
	}
	if len(argv) == 0 {
		return nil, &EditorError{Command: e.command, Cause: errors.New("no editor configured (set $VISUAL or $EDITOR)")}
	}
	return argv, nil
}

// Available reports the resolved path of the editor program.
func (e *Editor) Available() (string, bool) {
	argv, err := e.Argv()
	if err != nil {
		return "", false
	}
	path, err := e.runner.LookPath(argv[0])
	if err != nil {
		return "", false
	}
	return path, true
}

// Edit opens path in the editor attached to stdio and reports whether the
// file's modification time changed.
func (e *Editor) Edit(ctx context.Context, path string, stdio execx.Stdio) (bool, error) {
	argv, err := e.Argv()
	if err != nil {
		return false, err
	}

	before := e.modTime(path)
	args := append(argv[1:], path)

	e.logger.Debug("Opening editor", "command", argv[0], "args", args)
	if err := e.runner.Run(ctx, stdio, argv[0], args...); err != nil {
		return false, &EditorError{Command: e.command, Cause: err}
	}

	return !e.modTime(path).Equal(before), nil
}

func (e *Editor) modTime(path string) time.Time {
	info, err := e.fs.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
