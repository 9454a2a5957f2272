package unit

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var updateGolden = flag.Bool("update", false, "update golden files")

func minimalRecords() map[Type]Record {
	return map[Type]Record{
		Service: NewServiceRecord("app", "/usr/bin/app"),
		Timer:   NewTimerRecord("app"),
		Path:    NewPathRecord("app"),
		Socket:  NewSocketRecord("app"),
		Mount:   NewMountRecord("/dev/sdb1", "/mnt/backup"),
		Target:  NewTargetRecord("app"),
	}
}

func TestRender_MinimalRecordsStartWithMarker(t *testing.T) {
	for kind, rec := range minimalRecords() {
		t.Run(kind.String(), func(t *testing.T) {
			out, err := Render(kind, rec)
			require.NoError(t, err)

			firstLine, _, found := strings.Cut(out, "\n")
			require.True(t, found)
			assert.Equal(t, Marker, firstLine)
			assert.True(t, strings.HasSuffix(out, "\n"))
			assert.False(t, strings.HasSuffix(out, "\n\n"))
			assert.NotContains(t, out, "\n\n\n")
		})
	}
}

func TestRender_DefaultServiceScenario(t *testing.T) {
	out, err := Render(Service, NewServiceRecord("test-service", "/usr/bin/test"))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	for _, want := range []string{
		"Description=test-service service",
		"ExecStart=/usr/bin/test",
		"Type=simple",
		"Restart=on-failure",
	} {
		assert.Contains(t, lines, want)
	}
	assert.NotContains(t, out, "\n\n\n")
}

func TestRender_UnsetOptionalFieldsEmitNoLine(t *testing.T) {
	rec := NewServiceRecord("bare", "/bin/true")
	rec.After = ""

	out, err := Render(Service, rec)
	require.NoError(t, err)

	for _, key := range []string{"After=", "Wants=", "Requires=", "WorkingDirectory=", "User=", "Group=", "Environment=", "EnvironmentFile=", "NoNewPrivileges="} {
		assert.NotContains(t, out, key)
	}
}

func TestRender_Golden(t *testing.T) {
	full := NewServiceRecord("myapp", "/usr/bin/myapp --port 8080")
	full.Description = "My Application"
	full.After = "network-online.target"
	full.Wants = "network-online.target"
	full.ServiceType = "notify"
	full.WorkDir = "/var/lib/myapp"
	full.User = "myuser"
	full.Group = "mygroup"
	full.Restart = "always"
	full.RestartSec = 10
	full.Env = []string{"FOO=bar", "BAZ=qux"}
	full.EnvFile = "/etc/myapp.env"
	full.Hardening = true
	full.WantedBy = "multi-user.target"

	oneshot := NewServiceRecord("job", "/usr/local/bin/job.sh")
	oneshot.Description = "oneshot job"
	oneshot.After = ""
	oneshot.ServiceType = "oneshot"
	oneshot.Restart = "no"

	timer := NewTimerRecord("backup")
	timer.OnCalendar = "daily"
	timer.Persistent = true
	timer.RandomizedDelay = "1h"

	path := NewPathRecord("watch")
	path.PathChanged = "/tmp/watch"
	path.MakeDirectory = true

	socket := NewSocketRecord("api")
	socket.ListenStream = "8080"
	socket.Accept = true
	socket.MaxConnections = 64

	mount := NewMountRecord("/dev/sda1", "/mnt/data")
	mount.FSType = "ext4"
	mount.Options = "defaults"

	target := NewTargetRecord("test")
	target.Description = "Test Target"
	target.Wants = "foo.service bar.service"

	cases := []struct {
		name string
		kind Type
		rec  Record
	}{
		{"service_minimal", Service, NewServiceRecord("test-service", "/usr/bin/test")},
		{"service_full", Service, full},
		{"service_restart_no", Service, oneshot},
		{"timer", Timer, timer},
		{"path", Path, path},
		{"socket", Socket, socket},
		{"mount", Mount, mount},
		{"target", Target, target},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Render(tc.kind, tc.rec)
			require.NoError(t, err)

			goldenPath := filepath.Join("testdata", tc.name+".golden")
			if *updateGolden {
				require.NoError(t, os.WriteFile(goldenPath, []byte(got), 0644))
				t.Logf("Updated golden file: %s", goldenPath)
				return
			}

			expected, err := os.ReadFile(goldenPath)
			require.NoErrorf(t, err, "Failed to read golden file: %s", goldenPath)

			if diff := cmp.Diff(string(expected), got); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s\nRun with -update to regenerate golden files.", tc.name, diff)
			}
		})
	}
}

func TestRender_KindMismatch(t *testing.T) {
	_, err := Render(Timer, NewServiceRecord("x", "/bin/x"))
	require.Error(t, err)

	var tmplErr *TemplateError
	require.True(t, errors.As(err, &tmplErr))
	assert.Equal(t, Timer, tmplErr.Kind)
	assert.Contains(t, err.Error(), "cannot bind a service record")
}

func TestRender_NilRecord(t *testing.T) {
	_, err := Render(Target, nil)

	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := Render(Type(99), NewTargetRecord("x"))

	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Contains(t, err.Error(), "no template registered")
}

func TestRender_StrictBindingRejectsMissingField(t *testing.T) {
	tmpl := mustParse(Service, "[Service]\nExecStart={{.Exec}}\nSlice={{.Slice}}\n")

	_, err := execute(Service, tmpl, NewServiceRecord("x", "/bin/x"))
	require.Error(t, err)

	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Equal(t, Service, tmplErr.Kind)
	assert.Contains(t, err.Error(), "Slice")
}

func TestTemplateError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &TemplateError{Kind: Mount, Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to render mount template: boom", err.Error())
}
