package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/systemd"
	"github.com/mkunit/mkunit/internal/ui"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "generic", err: errors.New("boom"), want: ExitGeneral},
		{name: "invalid argument", err: invalidArgf("bad flag"), want: ExitInvalidArgs},
		{name: "wrapped invalid argument", err: fmt.Errorf("service: %w", invalidArgf("bad")), want: ExitInvalidArgs},
		{name: "missing value", err: &ui.MissingValueError{Label: "Command to run"}, want: ExitInvalidArgs},
		{name: "interactive disabled", err: ui.ErrInteractiveDisabled, want: ExitInvalidArgs},
		{name: "unit not found", err: &paths.UnitNotFoundError{Name: "web"}, want: ExitUnitNotFound},
		{name: "permission", err: fmt.Errorf("writing unit: %w", fs.ErrPermission), want: ExitPermissionDenied},
		{name: "systemd job", err: &systemd.Error{Operation: "start", UnitName: "web.service", Cause: errors.New("failed")}, want: ExitSystemd},
		{name: "bus connection", err: &systemd.ConnectionError{UserMode: true, Cause: errors.New("no bus")}, want: ExitSystemd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestPrintError_UnitNotFound(t *testing.T) {
	var out, errOut bytes.Buffer
	p := ui.NewPrinter(&out, &errOut, false)

	PrintError(p, &paths.UnitNotFoundError{
		Name:     "web",
		Searched: []string{"/home/u/.config/systemd/user/web.service"},
		Hint:     "A system unit exists at /etc/systemd/system/web.service; add --system to use it",
	})

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error: Unit 'web' not found")
	assert.Contains(t, errOut.String(), "    /home/u/.config/systemd/user/web.service")
	assert.Contains(t, errOut.String(), "Hint: A system unit exists at /etc/systemd/system/web.service; add --system to use it")
}

func TestPrintError_Generic(t *testing.T) {
	var out, errOut bytes.Buffer
	PrintError(ui.NewPrinter(&out, &errOut, false), errors.New("boom"))
	assert.Equal(t, "Error: boom\n", errOut.String())
}

func TestArgValidators(t *testing.T) {
	app := NewAppBuilder(t).Build()

	err := ExecuteCommand(t, app, NewShowCommand().GetCobraCommand(), []string{"a", "b"})
	var invalid *InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)

	err = ExecuteCommand(t, app, NewMountCommand().GetCobraCommand(), []string{"a", "b"})
	assert.ErrorAs(t, err, &invalid)
}
