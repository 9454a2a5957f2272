package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkunit/mkunit/internal/ui"
)

func TestTimerCommand_OnCalendar(t *testing.T) {
	app := NewAppBuilder(t).Build()

	err := ExecuteCommand(t, app, NewTimerCommand().GetCobraCommand(),
		[]string{"backup", "--on-calendar", "*-*-* 04:00:00", "--persistent", "--randomize-delay", "5m"})
	require.NoError(t, err)

	content := readUnit(t, app, filepath.Join(app.Config.UserUnitDir, "backup.timer"))
	assert.Contains(t, content, "OnCalendar=*-*-* 04:00:00")
	assert.Contains(t, content, "Persistent=true")
	assert.Contains(t, content, "RandomizedDelaySec=5m")
	assert.Contains(t, content, "Unit=backup.service")
	assert.Contains(t, content, "WantedBy=timers.target")
}

func TestTimerCommand_ExplicitUnit(t *testing.T) {
	app := NewAppBuilder(t).Build()

	err := ExecuteCommand(t, app, NewTimerCommand().GetCobraCommand(),
		[]string{"nightly", "--on-boot", "15min", "-u", "cleanup"})
	require.NoError(t, err)

	content := readUnit(t, app, filepath.Join(app.Config.UserUnitDir, "nightly.timer"))
	assert.Contains(t, content, "OnBootSec=15min")
	assert.Contains(t, content, "Unit=cleanup.service")
	assert.NotContains(t, content, "OnCalendar=")
}

func TestTimerCommand_PromptsForTrigger(t *testing.T) {
	prompter := &ui.MockPrompter{Answers: []string{"daily"}}
	app := NewAppBuilder(t).WithPrompter(prompter).Build()

	err := ExecuteCommand(t, app, NewTimerCommand().GetCobraCommand(), []string{"backup"})
	require.NoError(t, err)

	require.Len(t, prompter.Asked, 1)
	assert.Contains(t, prompter.Asked[0], "Timer trigger")
	assert.Contains(t, readUnit(t, app, filepath.Join(app.Config.UserUnitDir, "backup.timer")), "OnCalendar=daily")
}

func TestTimerCommand_RejectsDurationAsCalendar(t *testing.T) {
	app := NewAppBuilder(t).WithPrompter(&ui.MockPrompter{Answers: []string{"5m"}}).Build()

	err := ExecuteCommand(t, app, NewTimerCommand().GetCobraCommand(), []string{"backup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --on-boot flag explicitly")
	assert.Equal(t, ExitInvalidArgs, ExitCode(err))
	assert.False(t, app.FSService.Exists(filepath.Join(app.Config.UserUnitDir, "backup.timer")))
}

func TestBareDuration(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"5m", true},
		{"90s", true},
		{"1.5h", true},
		{"30 min", true},
		{"10seconds", true},
		{"daily", false},
		{"*-*-* 04:00:00", false},
		{"Mon *-*-* 09:00", false},
		{"hourly", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, bareDuration.MatchString(tt.input))
		})
	}
}

func TestPathCommand_PromptsForWatch(t *testing.T) {
	prompter := &ui.MockPrompter{Answers: []string{"/srv/inbox"}}
	app := NewAppBuilder(t).WithPrompter(prompter).Build()

	err := ExecuteCommand(t, app, NewPathCommand().GetCobraCommand(), []string{"inbox"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Path to watch"}, prompter.Asked)
	content := readUnit(t, app, filepath.Join(app.Config.UserUnitDir, "inbox.path"))
	assert.Contains(t, content, "PathChanged=/srv/inbox")
	assert.Contains(t, content, "Unit=inbox.service")
}

func TestPathCommand_Flags(t *testing.T) {
	prompter := &ui.MockPrompter{}
	app := NewAppBuilder(t).WithPrompter(prompter).Build()

	err := ExecuteCommand(t, app, NewPathCommand().GetCobraCommand(),
		[]string{"spool", "--directory-not-empty", "/var/spool/app", "--make-directory", "-u", "process.service"})
	require.NoError(t, err)

	assert.Empty(t, prompter.Asked)
	content := readUnit(t, app, filepath.Join(app.Config.UserUnitDir, "spool.path"))
	assert.Contains(t, content, "DirectoryNotEmpty=/var/spool/app")
	assert.Contains(t, content, "MakeDirectory=true")
	assert.Contains(t, content, "Unit=process.service")
}

func TestSocketCommand_PromptsForListener(t *testing.T) {
	prompter := &ui.MockPrompter{Answers: []string{"8080"}}
	app := NewAppBuilder(t).WithPrompter(prompter).Build()

	err := ExecuteCommand(t, app, NewSocketCommand().GetCobraCommand(), []string{"web", "--accept"})
	require.NoError(t, err)

	require.Len(t, prompter.Asked, 1)
	assert.Contains(t, prompter.Asked[0], "Listen address")
	content := readUnit(t, app, filepath.Join(app.Config.UserUnitDir, "web.socket"))
	assert.Contains(t, content, "ListenStream=8080")
	assert.Contains(t, content, "Accept=yes")
	assert.Contains(t, content, "WantedBy=sockets.target")
}

func TestSocketCommand_Datagram(t *testing.T) {
	app := NewAppBuilder(t).Build()

	err := ExecuteCommand(t, app, NewSocketCommand().GetCobraCommand(),
		[]string{"syslog", "--listen-datagram", "514", "--max-connections", "16"})
	require.NoError(t, err)

	content := readUnit(t, app, filepath.Join(app.Config.UserUnitDir, "syslog.socket"))
	assert.Contains(t, content, "ListenDatagram=514")
	assert.Contains(t, content, "MaxConnections=16")
	assert.NotContains(t, content, "ListenStream=")
}

func TestMountCommand_DerivesName(t *testing.T) {
	app := NewAppBuilder(t).Build()

	err := ExecuteCommand(t, app, NewMountCommand().GetCobraCommand(),
		[]string{"--what", "/dev/sdb1", "--where", "/mnt/data", "-t", "ext4", "--options", "noatime"})
	require.NoError(t, err)

	content := readUnit(t, app, filepath.Join(app.Config.SystemUnitDir, "mnt-data.mount"))
	assert.Contains(t, content, "What=/dev/sdb1")
	assert.Contains(t, content, "Where=/mnt/data")
	assert.Contains(t, content, "Type=ext4")
	assert.Contains(t, content, "Options=noatime")
	assert.Contains(t, content, "WantedBy=multi-user.target")
}

func TestMountCommand_NameMismatchWarns(t *testing.T) {
	app := NewAppBuilder(t).Build()

	_, stderr, err := ExecuteCommandWithCapture(t, app, NewMountCommand().GetCobraCommand(),
		[]string{"data", "--what", "/dev/sdb1", "--where", "/mnt/data"})
	require.NoError(t, err)

	assert.Contains(t, stderr, "Mount unit name 'data.mount' does not match mount point '/mnt/data'")
	assert.Contains(t, stderr, "mnt-data.mount")
	assert.True(t, app.FSService.Exists(filepath.Join(app.Config.SystemUnitDir, "data.mount")))
}

func TestMountCommand_UserScope(t *testing.T) {
	app := NewAppBuilder(t).Build()

	err := ExecuteCommand(t, app, NewMountCommand().GetCobraCommand(),
		[]string{"--what", "/dev/sdb1", "--where", "/mnt/data", "--user"})
	require.NoError(t, err)

	assert.True(t, app.FSService.Exists(filepath.Join(app.Config.UserUnitDir, "mnt-data.mount")))
}

func TestMountCommand_PromptsAndRejectsRelativeWhere(t *testing.T) {
	prompter := &ui.MockPrompter{Answers: []string{"/dev/sdb1", "mnt/data"}}
	app := NewAppBuilder(t).WithPrompter(prompter).Build()

	err := ExecuteCommand(t, app, NewMountCommand().GetCobraCommand(), []string{})
	require.Error(t, err)

	assert.Equal(t, []string{"Source device/path", "Mount point"}, prompter.Asked)
	assert.Contains(t, err.Error(), "must be an absolute path")
	assert.Equal(t, ExitInvalidArgs, ExitCode(err))
}

func TestMountUnitName(t *testing.T) {
	tests := []struct {
		where string
		want  string
	}{
		{"/mnt/data", "mnt-data"},
		{"/mnt/data/", "mnt-data"},
		{"/var/lib/foo-bar", `var-lib-foo\x2dbar`},
		{"/", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			assert.Equal(t, tt.want, MountUnitName(tt.where))
		})
	}
}

func TestTargetCommand_JoinsDependencies(t *testing.T) {
	app := NewAppBuilder(t).Build()

	err := ExecuteCommand(t, app, NewTargetCommand().GetCobraCommand(),
		[]string{"stack", "--wants", "web.service", "--wants", "db.service", "--requires", "net.service", "--after", "db.service"})
	require.NoError(t, err)

	content := readUnit(t, app, filepath.Join(app.Config.UserUnitDir, "stack.target"))
	assert.Contains(t, content, "Wants=web.service db.service")
	assert.Contains(t, content, "Requires=net.service")
	assert.Contains(t, content, "After=db.service")
	assert.Contains(t, content, "Description=stack target")
}
