package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// ExecuteCommandWithCapture executes a cobra command in the context of app and
// returns what the command printed to its output and error streams.
// app must have been built with buffer-backed streams (see AppBuilder).
func ExecuteCommandWithCapture(t *testing.T, app *App, cmd *cobra.Command, args []string) (stdout, stderr string, err error) {
	t.Helper()

	outBuf, _ := app.Printer.Out.(*bytes.Buffer)
	errBuf, _ := app.Printer.Err.(*bytes.Buffer)

	err = ExecuteCommand(t, app, cmd, args)

	if outBuf != nil {
		stdout = outBuf.String()
	}
	if errBuf != nil {
		stderr = errBuf.String()
	}
	return stdout, stderr, err
}

// ExecuteCommand is a simpler helper for commands that don't need output capture.
func ExecuteCommand(t *testing.T, app *App, cmd *cobra.Command, args []string) error {
	t.Helper()
	SetupCommandContext(cmd, app)
	var discard bytes.Buffer
	cmd.SetOut(&discard)
	cmd.SetErr(&discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// AssertCommandSuccess verifies a command executed successfully.
func AssertCommandSuccess(t *testing.T, app *App, cmd *cobra.Command, args []string) {
	t.Helper()
	err := ExecuteCommand(t, app, cmd, args)
	assert.NoError(t, err)
}

// AssertCommandOutput verifies command output contains expected strings.
func AssertCommandOutput(t *testing.T, app *App, cmd *cobra.Command, args []string, expectedOutputs ...string) {
	t.Helper()
	stdout, stderr, err := ExecuteCommandWithCapture(t, app, cmd, args)
	assert.NoError(t, err)

	for _, expected := range expectedOutputs {
		assert.Contains(t, stdout, expected, "Expected output to contain: %s\nActual output: %s\nStderr: %s", expected, stdout, stderr)
	}
}

// AssertCommandFailure verifies a command fails with expected error.
func AssertCommandFailure(t *testing.T, app *App, cmd *cobra.Command, args []string, expectedError string) {
	t.Helper()
	_, _, err := ExecuteCommandWithCapture(t, app, cmd, args)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expectedError)
	}
}

// SetupCommandContext creates a command with app context for testing.
func SetupCommandContext(cmd *cobra.Command, app *App) {
	ctx := context.WithValue(context.Background(), appContextKey, app)
	cmd.SetContext(ctx)
}
