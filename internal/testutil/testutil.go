// Package testutil provides common test utilities and helpers to reduce boilerplate in test files.
package testutil

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkunit/mkunit/internal/config"
	"github.com/mkunit/mkunit/internal/log"
)

// NewTestLogger creates a logger that writes to t.Logf for testing.
// This ensures test output is properly captured by the test framework.
func NewTestLogger(t testing.TB) log.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	handler := &testHandler{t: t, opts: opts}
	return log.NewSlogAdapter(slog.New(handler))
}

// ConfigOption allows customization of test config settings.
type ConfigOption func(*config.Settings)

// WithUnitDirs sets the user and system unit directories and makes each the only search path of its scope.
func WithUnitDirs(userDir, systemDir string) ConfigOption {
	return func(cfg *config.Settings) {
		cfg.UserUnitDir = userDir
		cfg.SystemUnitDir = systemDir
		cfg.UserSearchPaths = []string{userDir}
		cfg.SystemSearchPaths = []string{systemDir}
	}
}

// WithVerbose sets verbose logging.
func WithVerbose(verbose bool) ConfigOption {
	return func(cfg *config.Settings) {
		cfg.Verbose = verbose
	}
}

// WithNoInteractive disables prompting.
func WithNoInteractive(noInteractive bool) ConfigOption {
	return func(cfg *config.Settings) {
		cfg.NoInteractive = noInteractive
	}
}

// WithVerify toggles systemd-analyze verification after writes.
func WithVerify(verify bool) ConfigOption {
	return func(cfg *config.Settings) {
		cfg.Verify = verify
	}
}

// NewMockConfig creates a config provider for testing with optional customizations.
// Unit directories default to fresh temp directories that are removed when the test ends.
func NewMockConfig(t testing.TB, opts ...ConfigOption) config.Provider {
	tmpDir := t.TempDir()
	userDir := filepath.Join(tmpDir, "user")
	systemDir := filepath.Join(tmpDir, "system")

	cfg := &config.Settings{
		UserUnitDir:       userDir,
		SystemUnitDir:     systemDir,
		UserSearchPaths:   []string{userDir},
		SystemSearchPaths: []string{systemDir},
		Verbose:           true,
		NoInteractive:     true,
		CommandTimeout:    5 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	configProvider := config.NewDefaultConfigProvider()
	configProvider.SetConfig(cfg)
	return configProvider
}

// testHandler implements slog.Handler to write to testing.TB.
type testHandler struct {
	t    testing.TB
	opts *slog.HandlerOptions
}

func (h *testHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *testHandler) Handle(_ context.Context, record slog.Record) error {
	h.t.Logf("[%s] %s", record.Level.String(), record.Message)
	return nil
}

func (h *testHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &testHandler{t: h.t, opts: h.opts}
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return &testHandler{t: h.t, opts: h.opts}
}
