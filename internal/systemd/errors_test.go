package systemd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("Error returns formatted message", func(t *testing.T) {
		originalErr := errors.New("connection refused")
		err := NewError("start", "web.service", originalErr)

		assert.Equal(t, "systemd start failed for web.service: connection refused", err.Error())
	})

	t.Run("Unwrap returns underlying error", func(t *testing.T) {
		originalErr := errors.New("connection refused")
		err := NewError("start", "web.service", originalErr)

		assert.Equal(t, originalErr, errors.Unwrap(err))
	})

	t.Run("IsError detects wrapped Error", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NewError("stop", "web.service", errors.New("x")))

		assert.True(t, IsError(err))
		assert.False(t, IsError(errors.New("plain")))
	})
}

func TestConnectionError(t *testing.T) {
	t.Run("user mode", func(t *testing.T) {
		err := NewConnectionError(true, errors.New("permission denied"))
		assert.Equal(t, "failed to connect to systemd user bus: permission denied", err.Error())
	})

	t.Run("system mode", func(t *testing.T) {
		err := NewConnectionError(false, errors.New("permission denied"))
		assert.Equal(t, "failed to connect to systemd system bus: permission denied", err.Error())
	})

	t.Run("IsConnectionError", func(t *testing.T) {
		cause := errors.New("no bus")
		err := fmt.Errorf("reload: %w", NewConnectionError(true, cause))

		assert.True(t, IsConnectionError(err))
		assert.ErrorIs(t, err, cause)
		assert.False(t, IsConnectionError(cause))
	})
}

func TestJobError(t *testing.T) {
	assert.Equal(t, `job finished with result "failed"`, (&JobError{Result: "failed"}).Error())
}
