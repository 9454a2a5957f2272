package validate

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/mkunit/mkunit/internal/execx"
	"github.com/mkunit/mkunit/internal/log"
)

// MinSystemdVersion is the oldest systemd release mkunit supports.
const MinSystemdVersion = 249

// SystemdVersion is the parsed first line of `systemctl --version`.
type SystemdVersion struct {
	Major int    `json:"major" yaml:"major"`
	Full  string `json:"full" yaml:"full"`
}

// Supports reports whether this version is at least minVersion.
func (v SystemdVersion) Supports(minVersion int) bool {
	return v.Major >= minVersion
}

// Supported reports whether this version meets MinSystemdVersion.
func (v SystemdVersion) Supported() bool {
	return v.Supports(MinSystemdVersion)
}

// ParseSystemdVersion parses output such as "systemd 252 (252-14.el9_2)".
func ParseSystemdVersion(output string) (SystemdVersion, error) {
	firstLine, _, _ := strings.Cut(output, "\n")
	firstLine = strings.TrimSpace(firstLine)

	fields := strings.Fields(firstLine)
	if len(fields) < 2 {
		return SystemdVersion{}, fmt.Errorf("could not parse systemd version from: %q", firstLine)
	}

	major, err := strconv.Atoi(fields[1])
	if err != nil {
		return SystemdVersion{}, fmt.Errorf("invalid systemd version number: %s", fields[1])
	}

	return SystemdVersion{Major: major, Full: firstLine}, nil
}

// Validator provides system requirements validation with dependency injection.
type Validator struct {
	logger   log.Logger
	runner   execx.Runner
	osGetter func() string // For testing, defaults to runtime.GOOS
}

// NewValidator creates a new Validator with the provided logger and command runner.
func NewValidator(logger log.Logger, runner execx.Runner) *Validator {
	return &Validator{
		logger:   logger,
		runner:   runner,
		osGetter: func() string { return runtime.GOOS },
	}
}

// WithOSGetter sets a custom OS getter for testing.
func (v *Validator) WithOSGetter(osGetter func() string) *Validator {
	v.osGetter = osGetter
	return v
}

// SystemdVersion runs `systemctl --version` and parses the result.
func (v *Validator) SystemdVersion(ctx context.Context) (SystemdVersion, error) {
	v.logger.Debug("Detecting systemd version")

	output, err := v.runner.CombinedOutput(ctx, "systemctl", "--version")
	if err != nil {
		return SystemdVersion{}, fmt.Errorf("systemd not found: %w", err)
	}

	if !strings.Contains(string(output), "systemd") {
		return SystemdVersion{}, fmt.Errorf("systemd not properly installed")
	}

	return ParseSystemdVersion(string(output))
}

// SystemRequirements checks that the host runs a supported systemd.
func (v *Validator) SystemRequirements(ctx context.Context) error {
	if goos := v.osGetter(); goos != "linux" {
		return fmt.Errorf("unsupported platform: %s (mkunit requires Linux with systemd)", goos)
	}

	version, err := v.SystemdVersion(ctx)
	if err != nil {
		return err
	}

	if !version.Supported() {
		return fmt.Errorf("systemd %d is older than the minimum supported version %d", version.Major, MinSystemdVersion)
	}

	v.logger.Debug("systemd version supported", "version", version.Major)
	return nil
}
