package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/mkunit/mkunit/internal/config"
	"github.com/mkunit/mkunit/internal/fs"
	"github.com/mkunit/mkunit/internal/journal"
	"github.com/mkunit/mkunit/internal/paths"
	"github.com/mkunit/mkunit/internal/systemd"
	"github.com/mkunit/mkunit/internal/testutil"
	"github.com/mkunit/mkunit/internal/testutil/fakerunner"
	"github.com/mkunit/mkunit/internal/ui"
	"github.com/mkunit/mkunit/internal/validate"
)

// MockValidator implements SystemValidator.
type MockValidator struct {
	SystemRequirementsFunc func(ctx context.Context) error
	SystemdVersionFunc     func(ctx context.Context) (validate.SystemdVersion, error)
}

func (m *MockValidator) SystemRequirements(ctx context.Context) error {
	if m.SystemRequirementsFunc != nil {
		return m.SystemRequirementsFunc(ctx)
	}
	return nil
}

func (m *MockValidator) SystemdVersion(ctx context.Context) (validate.SystemdVersion, error) {
	if m.SystemdVersionFunc != nil {
		return m.SystemdVersionFunc(ctx)
	}
	return validate.SystemdVersion{Major: 255, Full: "systemd 255 (255.4-1)"}, nil
}

// MockVerifier implements UnitVerifier.
type MockVerifier struct {
	Output string
	Ran    bool
	Paths  []string
}

func (m *MockVerifier) Verify(_ context.Context, path string, _ bool) (string, bool) {
	m.Paths = append(m.Paths, path)
	return m.Output, m.Ran
}

// MockJournal implements JournalReader.
type MockJournal struct {
	StreamOutput string
	StreamErr    error
	RecentLines  []string

	mu      sync.Mutex
	streams []journal.Options
}

func (m *MockJournal) Stream(_ context.Context, _ string, opts journal.Options, out, _ io.Writer) error {
	m.mu.Lock()
	m.streams = append(m.streams, opts)
	m.mu.Unlock()
	if m.StreamErr != nil {
		return m.StreamErr
	}
	_, err := io.WriteString(out, m.StreamOutput)
	return err
}

func (m *MockJournal) Recent(_ context.Context, _ string, _ bool, n int) []string {
	if n < len(m.RecentLines) {
		return m.RecentLines[len(m.RecentLines)-n:]
	}
	return m.RecentLines
}

// Streams returns the options of every Stream call.
func (m *MockJournal) Streams() []journal.Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]journal.Options(nil), m.streams...)
}

// AppBuilder provides a fluent interface for building test Apps.
// Unit directories are temp directories on the real filesystem so that
// symlinks and atomic renames behave as in production.
type AppBuilder struct {
	t         *testing.T
	opts      []testutil.ConfigOption
	manager   *systemd.MockManager
	prompter  ui.Prompter
	runner    *fakerunner.Runner
	validator SystemValidator
	verifier  UnitVerifier
	journal   JournalReader
	fs        afero.Fs
	scopes    *[]paths.Scope
}

// NewAppBuilder creates a new AppBuilder with sensible test defaults.
func NewAppBuilder(t *testing.T) *AppBuilder {
	return &AppBuilder{
		t:         t,
		manager:   &systemd.MockManager{},
		prompter:  &ui.MockPrompter{},
		runner:    fakerunner.New(),
		validator: &MockValidator{},
		verifier:  &MockVerifier{},
		journal:   &MockJournal{},
		fs:        afero.NewOsFs(),
		scopes:    &[]paths.Scope{},
	}
}

// WithConfig applies configuration options.
func (b *AppBuilder) WithConfig(opts ...testutil.ConfigOption) *AppBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithDryRun enables dry-run mode.
func (b *AppBuilder) WithDryRun() *AppBuilder {
	return b.WithConfig(func(cfg *config.Settings) { cfg.DryRun = true })
}

// WithManager sets the systemd manager returned for every scope.
func (b *AppBuilder) WithManager(m *systemd.MockManager) *AppBuilder {
	b.manager = m
	return b
}

// WithPrompter sets the prompter.
func (b *AppBuilder) WithPrompter(p ui.Prompter) *AppBuilder {
	b.prompter = p
	return b
}

// WithRunner sets the external command runner.
func (b *AppBuilder) WithRunner(r *fakerunner.Runner) *AppBuilder {
	b.runner = r
	return b
}

// WithValidator sets the system validator.
func (b *AppBuilder) WithValidator(v SystemValidator) *AppBuilder {
	b.validator = v
	return b
}

// WithVerifier sets the unit verifier.
func (b *AppBuilder) WithVerifier(v UnitVerifier) *AppBuilder {
	b.verifier = v
	return b
}

// WithJournal sets the journal reader.
func (b *AppBuilder) WithJournal(j JournalReader) *AppBuilder {
	b.journal = j
	return b
}

// WithFs sets the filesystem.
func (b *AppBuilder) WithFs(afs afero.Fs) *AppBuilder {
	b.fs = afs
	return b
}

// Scopes returns the scopes a manager was requested for, in order.
func (b *AppBuilder) Scopes() []paths.Scope {
	return *b.scopes
}

// Build creates the App with configured dependencies.
func (b *AppBuilder) Build() *App {
	provider := testutil.NewMockConfig(b.t, b.opts...)
	cfg := provider.GetConfig()
	logger := testutil.NewTestLogger(b.t)

	manager := b.manager
	scopes := b.scopes
	return &App{
		Logger:         logger,
		Config:         cfg,
		ConfigProvider: provider,
		Printer:        ui.NewPrinter(&bytes.Buffer{}, &bytes.Buffer{}, false),
		Prompter:       b.prompter,
		Runner:         b.runner,
		FSService:      fs.NewService(b.fs, logger),
		Resolver:       paths.NewResolver(b.fs, paths.DirsFromSettings(cfg)),
		Validator:      b.validator,
		Verifier:       b.verifier,
		Journal:        b.journal,
		Stdin:          strings.NewReader(""),
		managerFactory: func(scope paths.Scope) systemd.Manager {
			*scopes = append(*scopes, scope)
			return manager
		},
	}
}

// writeUnit places a unit file in the scope's unit directory and returns its path.
func writeUnit(t *testing.T, app *App, scope paths.Scope, name, content string) string {
	t.Helper()
	path := app.Resolver.UnitDir(scope) + "/" + name
	if _, err := app.FSService.WriteUnitFile(path, []byte(content)); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func stdoutOf(app *App) string {
	return app.Printer.Out.(*bytes.Buffer).String()
}

func stderrOf(app *App) string {
	return app.Printer.Err.(*bytes.Buffer).String()
}
