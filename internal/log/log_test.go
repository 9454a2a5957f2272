package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerTo(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{
			name:      "default logging level",
			verbose:   false,
			wantDebug: false,
		},
		{
			name:      "verbose logging level",
			verbose:   true,
			wantDebug: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerTo(&buf, tt.verbose)

			logger.Debug("debug message", "unit", "web.service")
			logger.Warn("warn message")

			out := buf.String()
			assert.Contains(t, out, "warn message")
			if tt.wantDebug {
				assert.Contains(t, out, "debug message")
				assert.Contains(t, out, "unit=web.service")
			} else {
				assert.NotContains(t, out, "debug message")
			}
		})
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	assert.NotPanics(t, func() {
		logger.Error("discarded", "key", "value")
	})
}
