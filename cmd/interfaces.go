package cmd

import (
	"context"
	"io"

	"github.com/mkunit/mkunit/internal/execx"
	"github.com/mkunit/mkunit/internal/journal"
	"github.com/mkunit/mkunit/internal/validate"
)

// SystemValidator provides system validation capabilities for commands.
type SystemValidator interface {
	SystemRequirements(ctx context.Context) error
	SystemdVersion(ctx context.Context) (validate.SystemdVersion, error)
}

// UnitVerifier runs an external verifier over a unit file.
type UnitVerifier interface {
	Verify(ctx context.Context, path string, userMode bool) (string, bool)
}

// JournalReader reads unit logs.
type JournalReader interface {
	Stream(ctx context.Context, unitName string, opts journal.Options, out, errOut io.Writer) error
	Recent(ctx context.Context, unitName string, userMode bool, n int) []string
}

// UnitEditor opens a file for editing and reports whether it changed.
type UnitEditor interface {
	Edit(ctx context.Context, path string, stdio execx.Stdio) (bool, error)
}
