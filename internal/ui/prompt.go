package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

var (
	// ErrInteractiveDisabled is returned when a required value is missing and prompting is turned off.
	ErrInteractiveDisabled = errors.New("interactive mode disabled and a required value was not provided")

	// ErrCancelled is returned when the user interrupts a prompt.
	ErrCancelled = errors.New("cancelled by user")
)

// MissingValueError reports a required value that cannot be prompted for
// because stdin or stdout is not a terminal.
type MissingValueError struct {
	Label string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("required value '%s' not provided and not running interactively", e.Label)
}

// Prompter asks the user for values.
type Prompter interface {
	// Required asks for a non-empty value.
	Required(label string) (string, error)

	// Optional asks for a value, returning def when nothing is entered or prompting is off.
	Optional(label, def string) (string, error)

	// Confirm asks a yes/no question, returning def when prompting is off.
	Confirm(label string, def bool) (bool, error)

	// ConfirmOrAbort is Confirm, but fails when a terminal is needed and missing.
	ConfirmOrAbort(label string, def bool) (bool, error)
}

// TerminalPrompter prompts on the controlling terminal through promptui.
type TerminalPrompter struct {
	noInteractive bool
	stdin         io.ReadCloser
	stdout        io.WriteCloser
	interactive   func() bool
}

// NewTerminalPrompter creates a prompter over os.Stdin and os.Stdout.
func NewTerminalPrompter(noInteractive bool) *TerminalPrompter {
	return &TerminalPrompter{
		noInteractive: noInteractive,
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		interactive: func() bool {
			return IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
		},
	}
}

// WithStreams replaces the prompt streams and the terminal check.
func (p *TerminalPrompter) WithStreams(in io.ReadCloser, out io.WriteCloser, interactive bool) *TerminalPrompter {
	p.stdin = in
	p.stdout = out
	p.interactive = func() bool { return interactive }
	return p
}

// Required asks for a non-empty value.
func (p *TerminalPrompter) Required(label string) (string, error) {
	if p.noInteractive {
		return "", ErrInteractiveDisabled
	}
	if !p.interactive() {
		return "", &MissingValueError{Label: label}
	}

	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  p.stdin,
		Stdout: p.stdout,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("a value is required")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(value), nil
}

// Optional asks for a value with a default.
func (p *TerminalPrompter) Optional(label, def string) (string, error) {
	if p.noInteractive || !p.interactive() {
		return def, nil
	}

	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	return value, nil
}

// Confirm asks a yes/no question.
func (p *TerminalPrompter) Confirm(label string, def bool) (bool, error) {
	if p.noInteractive || !p.interactive() {
		return def, nil
	}
	return p.confirm(label, def)
}

// ConfirmOrAbort asks a yes/no question and requires a terminal unless prompting is off.
func (p *TerminalPrompter) ConfirmOrAbort(label string, def bool) (bool, error) {
	if p.noInteractive {
		return def, nil
	}
	if !p.interactive() {
		return false, &MissingValueError{Label: label}
	}
	return p.confirm(label, def)
}

func (p *TerminalPrompter) confirm(label string, def bool) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	if def {
		prompt.Default = "y"
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, promptError(err)
	}
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrCancelled
	}
	return fmt.Errorf("failed to read input: %w", err)
}
