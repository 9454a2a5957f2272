package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/systemd"
)

func lifecycleCommandFor(t *testing.T, verb string) *LifecycleCommand {
	t.Helper()
	for _, action := range lifecycleActions {
		if action.Verb == verb {
			return NewLifecycleCommand(action)
		}
	}
	t.Fatalf("no lifecycle action %q", verb)
	return nil
}

func TestLifecycleCommands(t *testing.T) {
	tests := []struct {
		verb string
		args []string
		call string
		done string
	}{
		{verb: "enable", args: []string{"web"}, call: "enable web.service", done: "Enabled web.service"},
		{verb: "disable", args: []string{"web.service"}, call: "disable web.service", done: "Disabled web.service"},
		{verb: "start", args: []string{"backup.timer"}, call: "start backup.timer", done: "Started backup.timer"},
		{verb: "stop", args: []string{"web"}, call: "stop web.service", done: "Stopped web.service"},
		{verb: "restart", args: []string{"web"}, call: "restart web.service", done: "Restarted web.service"},
	}

	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			manager := &systemd.MockManager{}
			builder := NewAppBuilder(t).WithManager(manager)
			app := builder.Build()

			stdout, _, err := ExecuteCommandWithCapture(t, app, lifecycleCommandFor(t, tt.verb).GetCobraCommand(), tt.args)
			require.NoError(t, err)

			assert.Equal(t, []string{tt.call}, manager.Calls())
			assert.Equal(t, []paths.Scope{paths.User}, builder.Scopes())
			assert.Contains(t, stdout, tt.done)
		})
	}
}

func TestLifecycleCommand_SystemScope(t *testing.T) {
	builder := NewAppBuilder(t)
	app := builder.Build()

	require.NoError(t, ExecuteCommand(t, app, lifecycleCommandFor(t, "start").GetCobraCommand(), []string{"db", "--system"}))
	assert.Equal(t, []paths.Scope{paths.System}, builder.Scopes())
}

func TestLifecycleCommand_DryRun(t *testing.T) {
	manager := &systemd.MockManager{}
	app := NewAppBuilder(t).WithDryRun().WithManager(manager).Build()

	stdout, _, err := ExecuteCommandWithCapture(t, app, lifecycleCommandFor(t, "stop").GetCobraCommand(), []string{"web", "--system"})
	require.NoError(t, err)

	assert.Equal(t, "Would run: systemctl stop web.service\n", stdout)
	assert.Empty(t, manager.Calls())
}

func TestLifecycleCommand_JobFailure(t *testing.T) {
	manager := &systemd.MockManager{
		StartFunc: func(_ context.Context, name string) error {
			return &systemd.Error{Operation: "start", UnitName: name, Cause: errors.New("job failed")}
		},
	}
	app := NewAppBuilder(t).WithManager(manager).Build()

	err := ExecuteCommand(t, app, lifecycleCommandFor(t, "start").GetCobraCommand(), []string{"web"})
	require.Error(t, err)
	assert.Equal(t, ExitSystemd, ExitCode(err))
}
