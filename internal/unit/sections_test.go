package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSections(t *testing.T) {
	content := `# Generated by mkunit
[Unit]
Description=Web frontend
After=network.target db.service
Wants=db.service

[Service]
ExecStart=
ExecStart=/usr/bin/web --listen :8080
Environment="FOO=bar"
Environment="BAZ=qux"

[Install]
WantedBy=default.target
`

	sections, err := ParseSections([]byte(content))
	require.NoError(t, err)
	require.Len(t, sections, 3)

	assert.Equal(t, "Unit", sections[0].Name)
	assert.Equal(t, []string{"Web frontend"}, sections[0].Values("Description"))
	assert.Equal(t, []string{"network.target db.service"}, Lookup(sections, "Unit", "After"))

	assert.Equal(t, []string{"", "/usr/bin/web --listen :8080"}, sections[1].Values("ExecStart"))
	assert.Equal(t, []string{`"FOO=bar"`, `"BAZ=qux"`}, Lookup(sections, "Service", "Environment"))

	assert.Equal(t, []string{"default.target"}, Lookup(sections, "Install", "WantedBy"))
	assert.Empty(t, Lookup(sections, "Timer", "OnCalendar"))
}

func TestParseSections_EmptyAndRepeatedAssignments(t *testing.T) {
	content := `[Service]
ExecStartPre=/bin/true
ExecStartPre=/bin/true
ExecStart=/usr/bin/old
ExecStart=
ExecStart=/usr/bin/new
Environment=
`

	sections, err := ParseSections([]byte(content))
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, []string{"/bin/true", "/bin/true"}, sections[0].Values("ExecStartPre"))
	assert.Equal(t, []string{"/usr/bin/old", "", "/usr/bin/new"}, sections[0].Values("ExecStart"))
	assert.Equal(t, []string{""}, sections[0].Values("Environment"))
}

func TestParseSections_RenderedUnit(t *testing.T) {
	rec := NewTimerRecord("backup")
	rec.OnCalendar = "*-*-* 02:00:00"

	out, err := Render(Timer, rec)
	require.NoError(t, err)

	sections, err := ParseSections([]byte(out))
	require.NoError(t, err)

	assert.Equal(t, []string{"*-*-* 02:00:00"}, Lookup(sections, "Timer", "OnCalendar"))
	assert.Equal(t, []string{"backup.service"}, Lookup(sections, "Timer", "Unit"))
}
