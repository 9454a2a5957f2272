package cmd

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintOutput(t *testing.T) {
	data := OrderEntry{Position: 1, Name: "web.service", After: []string{"db.service"}}

	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: "{\n  \"position\": 1,\n  \"name\": \"web.service\",\n  \"after\": [\n    \"db.service\"\n  ]\n}\n"},
		{format: "yaml", want: "position: 1\nname: web.service\nafter:\n  - db.service\n"},
		{format: "YML", want: "position: 1\nname: web.service\nafter:\n  - db.service\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PrintOutput(&buf, tt.format, data))
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("PrintOutput(%s) mismatch (-want +got):\n%s", tt.format, diff)
			}
		})
	}
}

func TestPrintOutput_UnknownFormat(t *testing.T) {
	err := PrintOutput(&bytes.Buffer{}, "xml", nil)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, ExitCode(err))
}

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"text", "json", "yaml", "yml", "JSON"} {
		assert.NoError(t, validateOutputFormat(format), format)
	}
	assert.Error(t, validateOutputFormat("toml"))
}
