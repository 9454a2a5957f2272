package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeExtension(t *testing.T) {
	tests := []struct {
		typ  Type
		ext  string
		name string
	}{
		{Service, ".service", "Service"},
		{Timer, ".timer", "Timer"},
		{Path, ".path", "Path"},
		{Socket, ".socket", "Socket"},
		{Mount, ".mount", "Mount"},
		{Target, ".target", "Target"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.ext, tt.typ.Extension())
			assert.Equal(t, tt.name, tt.typ.DisplayName())
		})
	}
}

func TestFromExtension_Bijective(t *testing.T) {
	seen := make(map[string]bool)
	for _, typ := range Types() {
		ext := typ.Extension()
		require.False(t, seen[ext], "duplicate extension %s", ext)
		seen[ext] = true

		got, ok := FromExtension(ext)
		require.True(t, ok)
		assert.Equal(t, typ, got)

		got, ok = FromExtension(typ.String())
		require.True(t, ok, "extension without dot")
		assert.Equal(t, typ, got)
	}
	assert.Len(t, seen, 6)
}

func TestFromExtension_Unknown(t *testing.T) {
	for _, ext := range []string{"", ".", ".conf", ".slice", ".scope", "service.", ".Service"} {
		_, ok := FromExtension(ext)
		assert.False(t, ok, "extension %q", ext)
	}
}

func TestTypeOfFile(t *testing.T) {
	typ, ok := TypeOfFile("/etc/systemd/system/backup.timer")
	require.True(t, ok)
	assert.Equal(t, Timer, typ)

	_, ok = TypeOfFile("README")
	assert.False(t, ok)

	assert.True(t, HasKnownExtension("web.socket"))
	assert.False(t, HasKnownExtension("web"))
	assert.False(t, HasKnownExtension("web.conf"))
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("Mount")
	require.NoError(t, err)
	assert.Equal(t, Mount, typ)

	_, err = ParseType("slice")
	assert.EqualError(t, err, `unknown unit type "slice"`)
}

func TestTypeMarshalText(t *testing.T) {
	text, err := Socket.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "socket", string(text))
	assert.Equal(t, "Type(42)", Type(42).String())
}
