package systemd

import (
	"errors"
	"fmt"
)

// Error represents an error from systemd operations.
type Error struct {
	Operation string // The operation that failed (start, stop, enable, etc.)
	UnitName  string // The full unit name including its extension
	Cause     error  // The underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("systemd %s failed for %s: %v", e.Operation, e.UnitName, e.Cause)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given details.
func NewError(operation, unitName string, cause error) *Error {
	return &Error{
		Operation: operation,
		UnitName:  unitName,
		Cause:     cause,
	}
}

// ConnectionError represents an error connecting to systemd.
type ConnectionError struct {
	UserMode bool  // Whether this was a user or system connection attempt
	Cause    error // The underlying error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	mode := "system"
	if e.UserMode {
		mode = "user"
	}
	return fmt.Sprintf("failed to connect to systemd %s bus: %v", mode, e.Cause)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(userMode bool, cause error) *ConnectionError {
	return &ConnectionError{
		UserMode: userMode,
		Cause:    cause,
	}
}

// JobError reports a queued job that finished with a result other than "done".
type JobError struct {
	Result string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job finished with result %q", e.Result)
}

// IsConnectionError checks if an error is or wraps a ConnectionError.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// IsError checks if an error is or wraps a systemd Error.
func IsError(err error) bool {
	var sdErr *Error
	return errors.As(err, &sdErr)
}
