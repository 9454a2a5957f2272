package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/systemd"
	"github.com/mkunit/mkunit/internal/ui"
)

func TestRemoveCommand_ActiveEnabledUnit(t *testing.T) {
	manager := &systemd.MockManager{
		IsActiveFunc:  func(context.Context, string) (bool, error) { return true, nil },
		IsEnabledFunc: func(context.Context, string) (bool, error) { return true, nil },
	}
	prompter := &ui.MockPrompter{Confirms: []bool{true}}
	app := NewAppBuilder(t).WithManager(manager).WithPrompter(prompter).Build()
	path := writeUnit(t, app, paths.User, "web.service", validService)

	stdout, _, err := ExecuteCommandWithCapture(t, app, NewRemoveCommand().GetCobraCommand(), []string{"web"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Remove unit 'web.service'?"}, prompter.Asked)
	assert.Equal(t, []string{
		"is-active web.service",
		"stop web.service",
		"is-enabled web.service",
		"disable web.service",
		"reload",
	}, manager.Calls())
	assert.False(t, app.FSService.Exists(path))
	assert.Contains(t, stdout, "Stopped web.service")
	assert.Contains(t, stdout, "Disabled web.service")
	assert.Contains(t, stdout, "Removed web.service")
}

func TestRemoveCommand_InactiveUnitSkipsStop(t *testing.T) {
	manager := &systemd.MockManager{}
	app := NewAppBuilder(t).WithManager(manager).Build()
	writeUnit(t, app, paths.User, "backup.timer", "# Generated by mkunit\n[Timer]\nOnCalendar=daily\n")

	err := ExecuteCommand(t, app, NewRemoveCommand().GetCobraCommand(), []string{"backup", "--force"})
	require.NoError(t, err)

	assert.Equal(t, []string{"is-active backup.timer", "is-enabled backup.timer", "reload"}, manager.Calls())
}

func TestRemoveCommand_ForeignUnitWarnsInPrompt(t *testing.T) {
	prompter := &ui.MockPrompter{}
	manager := &systemd.MockManager{}
	app := NewAppBuilder(t).WithManager(manager).WithPrompter(prompter).Build()
	path := writeUnit(t, app, paths.System, "db.service", "[Unit]\nDescription=db\n")

	stdout, _, err := ExecuteCommandWithCapture(t, app, NewRemoveCommand().GetCobraCommand(), []string{"db", "--system"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Unit 'db.service' was not created by mkunit. Remove anyway?"}, prompter.Asked)
	assert.Contains(t, stdout, "Cancelled")
	assert.True(t, app.FSService.Exists(path))
	assert.Empty(t, manager.Calls())
}

func TestRemoveCommand_NonInteractive(t *testing.T) {
	app := NewAppBuilder(t).WithPrompter(&ui.MockPrompter{Err: ui.ErrInteractiveDisabled}).Build()
	path := writeUnit(t, app, paths.User, "web.service", validService)

	err := ExecuteCommand(t, app, NewRemoveCommand().GetCobraCommand(), []string{"web"})
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, ExitCode(err))
	assert.True(t, app.FSService.Exists(path))
}

func TestRemoveCommand_DryRun(t *testing.T) {
	manager := &systemd.MockManager{}
	app := NewAppBuilder(t).WithDryRun().WithManager(manager).Build()
	path := writeUnit(t, app, paths.User, "web.service", validService)

	stdout, _, err := ExecuteCommandWithCapture(t, app, NewRemoveCommand().GetCobraCommand(), []string{"web", "-f"})
	require.NoError(t, err)

	assert.Contains(t, stdout, "Would run: systemctl --user stop web.service")
	assert.Contains(t, stdout, "Would run: systemctl --user disable web.service")
	assert.Contains(t, stdout, "Would remove: "+path)
	assert.Contains(t, stdout, "Would run: systemctl --user daemon-reload")
	assert.True(t, app.FSService.Exists(path))
	assert.Empty(t, manager.Calls())
}

func TestRemoveCommand_NotFound(t *testing.T) {
	app := NewAppBuilder(t).Build()

	err := ExecuteCommand(t, app, NewRemoveCommand().GetCobraCommand(), []string{"ghost", "-f"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unit 'ghost' not found")
	assert.Equal(t, ExitUnitNotFound, ExitCode(err))
}

func TestLookupCommands_RejectUnsafeNames(t *testing.T) {
	commands := []struct {
		name   string
		newCmd func() *cobra.Command
		flags  []string
	}{
		{"remove", func() *cobra.Command { return NewRemoveCommand().GetCobraCommand() }, []string{"-f"}},
		{"show", func() *cobra.Command { return NewShowCommand().GetCobraCommand() }, nil},
		{"edit", func() *cobra.Command { return NewEditCommand().GetCobraCommand() }, nil},
	}

	for _, tc := range commands {
		for _, unitName := range []string{"../outside.service", "..", "a/b.service"} {
			t.Run(tc.name+" "+unitName, func(t *testing.T) {
				manager := &systemd.MockManager{}
				app := NewAppBuilder(t).WithManager(manager).Build()
				outside := filepath.Join(filepath.Dir(app.Config.UserUnitDir), "outside.service")
				_, err := app.FSService.WriteUnitFile(outside, []byte(validService))
				require.NoError(t, err)

				err = ExecuteCommand(t, app, tc.newCmd(), append([]string{unitName}, tc.flags...))
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid unit name")
				assert.Equal(t, ExitInvalidArgs, ExitCode(err))
				assert.True(t, app.FSService.Exists(outside))
				assert.Empty(t, manager.Calls())
			})
		}
	}
}
