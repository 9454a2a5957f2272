package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkunit/mkunit/internal/systemd"
)

func TestLinkCommand_CreatesSymlinkAndReloads(t *testing.T) {
	source := writeTempFile(t, "web.service", validService)
	manager := &systemd.MockManager{}
	app := NewAppBuilder(t).WithManager(manager).Build()

	stdout, _, err := ExecuteCommandWithCapture(t, app, NewLinkCommand().GetCobraCommand(), []string{source})
	require.NoError(t, err)

	target := filepath.Join(app.Config.UserUnitDir, "web.service")
	linked, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, source, linked)
	assert.Contains(t, stdout, "Linked "+target+" -> "+source)
	assert.Equal(t, []string{"reload"}, manager.Calls())
}

func TestLinkCommand_InstallAndStart(t *testing.T) {
	source := writeTempFile(t, "web.service", validService)
	manager := &systemd.MockManager{}
	app := NewAppBuilder(t).WithManager(manager).Build()

	err := ExecuteCommand(t, app, NewLinkCommand().GetCobraCommand(), []string{source, "-i", "--start", "--system"})
	require.NoError(t, err)

	_, err = os.Lstat(filepath.Join(app.Config.SystemUnitDir, "web.service"))
	require.NoError(t, err)
	assert.Equal(t, []string{"reload", "enable web.service", "start web.service"}, manager.Calls())
}

func TestLinkCommand_AlreadyLinked(t *testing.T) {
	source := writeTempFile(t, "web.service", validService)
	manager := &systemd.MockManager{}
	app := NewAppBuilder(t).WithManager(manager).Build()
	cmdArgs := []string{source}

	require.NoError(t, ExecuteCommand(t, app, NewLinkCommand().GetCobraCommand(), cmdArgs))
	stdout, _, err := ExecuteCommandWithCapture(t, app, NewLinkCommand().GetCobraCommand(), cmdArgs)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Already linked:")
	assert.Equal(t, []string{"reload"}, manager.Calls())
}

func TestLinkCommand_ExistingTarget(t *testing.T) {
	source := writeTempFile(t, "web.service", validService)
	app := NewAppBuilder(t).Build()
	target := filepath.Join(app.Config.UserUnitDir, "web.service")
	_, err := app.FSService.WriteUnitFile(target, []byte("[Unit]\n"))
	require.NoError(t, err)

	err = ExecuteCommand(t, app, NewLinkCommand().GetCobraCommand(), []string{source})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Target already exists: "+target+". Use --force to overwrite")
	assert.Equal(t, ExitInvalidArgs, ExitCode(err))

	require.NoError(t, ExecuteCommand(t, app, NewLinkCommand().GetCobraCommand(), []string{source, "--force"}))
	linked, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, source, linked)
}

func TestLinkCommand_DryRun(t *testing.T) {
	source := writeTempFile(t, "web.service", validService)
	manager := &systemd.MockManager{}
	app := NewAppBuilder(t).WithDryRun().WithManager(manager).Build()

	stdout, _, err := ExecuteCommandWithCapture(t, app, NewLinkCommand().GetCobraCommand(), []string{source})
	require.NoError(t, err)

	target := filepath.Join(app.Config.UserUnitDir, "web.service")
	assert.Contains(t, stdout, "Would create symlink: "+target+" -> "+source)
	assert.Contains(t, stdout, "Would run: systemctl --user daemon-reload")
	assert.False(t, app.FSService.Lexists(target))
	assert.Empty(t, manager.Calls())
}

func TestLinkCommand_RejectsBadSources(t *testing.T) {
	dir := t.TempDir()
	noExt := writeTempFile(t, "webservice", validService)
	unknown := writeTempFile(t, "web.conf", validService)

	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "missing", file: filepath.Join(dir, "missing.service"), want: "File not found"},
		{name: "directory", file: dir, want: "Not a file"},
		{name: "no extension", file: noExt, want: "File must have a systemd unit extension"},
		{name: "unknown extension", file: unknown, want: "Unknown unit type: .conf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewAppBuilder(t).Build()
			err := ExecuteCommand(t, app, NewLinkCommand().GetCobraCommand(), []string{tt.file})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, ExitInvalidArgs, ExitCode(err))
		})
	}
}
