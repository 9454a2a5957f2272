// Package systemd talks to the systemd manager over D-Bus to reload, enable,
// disable, start, stop and inspect units.
package systemd

import (
	"context"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Connection wraps systemd D-Bus operations for testability.
type Connection interface {
	// GetUnitProperties gets the org.freedesktop.systemd1.Unit properties of a unit.
	GetUnitProperties(ctx context.Context, unitName string) (map[string]interface{}, error)

	// GetUnitTypeProperties gets the properties of a unit's type interface, such as Service.
	GetUnitTypeProperties(ctx context.Context, unitName, unitType string) (map[string]interface{}, error)

	// StartUnit starts a systemd unit.
	StartUnit(ctx context.Context, unitName, mode string) (<-chan string, error)

	// StopUnit stops a systemd unit.
	StopUnit(ctx context.Context, unitName, mode string) (<-chan string, error)

	// RestartUnit restarts a systemd unit.
	RestartUnit(ctx context.Context, unitName, mode string) (<-chan string, error)

	// EnableUnitFiles enables units and reports whether they carry install information.
	EnableUnitFiles(ctx context.Context, files []string) (bool, []dbus.EnableUnitFileChange, error)

	// DisableUnitFiles disables units.
	DisableUnitFiles(ctx context.Context, files []string) ([]dbus.DisableUnitFileChange, error)

	// Reload reloads systemd configuration.
	Reload(ctx context.Context) error

	// Close closes the connection.
	Close() error
}

// ConnectionFactory creates systemd connections.
type ConnectionFactory interface {
	// NewConnection creates a new systemd connection on the user or system bus.
	NewConnection(ctx context.Context, userMode bool) (Connection, error)
}

// Manager performs lifecycle operations on units of one scope.
type Manager interface {
	// Reload reloads unit files (daemon-reload).
	Reload(ctx context.Context) error

	// Enable enables a unit.
	Enable(ctx context.Context, unitName string) error

	// Disable disables a unit.
	Disable(ctx context.Context, unitName string) error

	// Start starts a unit and waits for the job to finish.
	Start(ctx context.Context, unitName string) error

	// Stop stops a unit and waits for the job to finish.
	Stop(ctx context.Context, unitName string) error

	// Restart restarts a unit and waits for the job to finish.
	Restart(ctx context.Context, unitName string) error

	// IsActive reports whether the unit is active.
	IsActive(ctx context.Context, unitName string) (bool, error)

	// IsEnabled reports whether the unit file is enabled.
	IsEnabled(ctx context.Context, unitName string) (bool, error)

	// Status returns a summary of the unit's runtime state.
	Status(ctx context.Context, unitName string) (*UnitStatus, error)
}
