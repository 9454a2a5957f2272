package validate

import (
	"context"
	"strings"

	"github.com/mkunit/mkunit/internal/execx"
	"github.com/mkunit/mkunit/internal/log"
)

// Verifier runs systemd-analyze verify as a best-effort second opinion.
// Its output is informational and never changes a Report.
type Verifier struct {
	logger log.Logger
	runner execx.Runner
}

// NewVerifier creates a Verifier with the provided logger and command runner.
func NewVerifier(logger log.Logger, runner execx.Runner) *Verifier {
	return &Verifier{logger: logger, runner: runner}
}

// Verify returns the trimmed output of systemd-analyze for path and whether the tool ran at all.
// A non-zero exit status is expected when systemd-analyze has findings and is not an error.
func (v *Verifier) Verify(ctx context.Context, path string, userMode bool) (string, bool) {
	if _, err := v.runner.LookPath("systemd-analyze"); err != nil {
		v.logger.Debug("systemd-analyze not available, skipping verification", "error", err)
		return "", false
	}

	args := []string{"verify", path}
	if userMode {
		args = append([]string{"--user"}, args...)
	}

	v.logger.Debug("Running systemd-analyze", "args", args)
	output, err := v.runner.CombinedOutput(ctx, "systemd-analyze", args...)
	if err != nil {
		v.logger.Debug("systemd-analyze reported findings", "path", path, "error", err)
	}

	return strings.TrimSpace(string(output)), true
}
