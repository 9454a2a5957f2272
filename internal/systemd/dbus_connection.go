package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/mkunit/mkunit/internal/log"
)

// DBusConnection implements Connection interface wrapping systemd D-Bus operations.
type DBusConnection struct {
	conn *dbus.Conn
}

// NewDBusConnection creates a new D-Bus connection wrapper.
func NewDBusConnection(conn *dbus.Conn) *DBusConnection {
	return &DBusConnection{conn: conn}
}

// GetUnitProperties gets the unit properties of a systemd unit.
func (d *DBusConnection) GetUnitProperties(ctx context.Context, unitName string) (map[string]interface{}, error) {
	props, err := d.conn.GetUnitPropertiesContext(ctx, unitName)
	if err != nil {
		return nil, fmt.Errorf("error getting unit properties for %s: %w", unitName, err)
	}
	return props, nil
}

// GetUnitTypeProperties gets the type-specific properties of a systemd unit.
func (d *DBusConnection) GetUnitTypeProperties(ctx context.Context, unitName, unitType string) (map[string]interface{}, error) {
	props, err := d.conn.GetUnitTypePropertiesContext(ctx, unitName, unitType)
	if err != nil {
		return nil, fmt.Errorf("error getting %s properties for %s: %w", unitType, unitName, err)
	}
	return props, nil
}

// StartUnit starts a systemd unit. The returned channel receives the job result.
func (d *DBusConnection) StartUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	ch := make(chan string, 1)
	if _, err := d.conn.StartUnitContext(ctx, unitName, mode, ch); err != nil {
		return nil, fmt.Errorf("error starting unit %s: %w", unitName, err)
	}
	return ch, nil
}

// StopUnit stops a systemd unit. The returned channel receives the job result.
func (d *DBusConnection) StopUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	ch := make(chan string, 1)
	if _, err := d.conn.StopUnitContext(ctx, unitName, mode, ch); err != nil {
		return nil, fmt.Errorf("error stopping unit %s: %w", unitName, err)
	}
	return ch, nil
}

// RestartUnit restarts a systemd unit. The returned channel receives the job result.
func (d *DBusConnection) RestartUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	ch := make(chan string, 1)
	if _, err := d.conn.RestartUnitContext(ctx, unitName, mode, ch); err != nil {
		return nil, fmt.Errorf("error restarting unit %s: %w", unitName, err)
	}
	return ch, nil
}

// EnableUnitFiles enables units persistently, without overriding existing links.
func (d *DBusConnection) EnableUnitFiles(ctx context.Context, files []string) (bool, []dbus.EnableUnitFileChange, error) {
	carriesInstall, changes, err := d.conn.EnableUnitFilesContext(ctx, files, false, false)
	if err != nil {
		return false, nil, fmt.Errorf("error enabling %v: %w", files, err)
	}
	return carriesInstall, changes, nil
}

// DisableUnitFiles disables units persistently.
func (d *DBusConnection) DisableUnitFiles(ctx context.Context, files []string) ([]dbus.DisableUnitFileChange, error) {
	changes, err := d.conn.DisableUnitFilesContext(ctx, files, false)
	if err != nil {
		return nil, fmt.Errorf("error disabling %v: %w", files, err)
	}
	return changes, nil
}

// Reload reloads systemd configuration.
func (d *DBusConnection) Reload(ctx context.Context) error {
	if err := d.conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("error reloading systemd: %w", err)
	}
	return nil
}

// Close closes the D-Bus connection.
func (d *DBusConnection) Close() error {
	d.conn.Close()
	return nil
}

// DefaultConnectionFactory implements ConnectionFactory interface.
type DefaultConnectionFactory struct {
	logger log.Logger
}

// NewConnectionFactory creates a new connection factory with injected logger.
func NewConnectionFactory(logger log.Logger) *DefaultConnectionFactory {
	return &DefaultConnectionFactory{
		logger: logger,
	}
}

// NewConnection creates a new systemd connection on the user or system bus.
func (f *DefaultConnectionFactory) NewConnection(ctx context.Context, userMode bool) (Connection, error) {
	var conn *dbus.Conn
	var err error

	if userMode {
		f.logger.Debug("Establishing user connection to systemd")
		conn, err = dbus.NewUserConnectionContext(ctx)
	} else {
		f.logger.Debug("Establishing system connection to systemd")
		conn, err = dbus.NewSystemConnectionContext(ctx)
	}

	if err != nil {
		return nil, NewConnectionError(userMode, err)
	}

	return NewDBusConnection(conn), nil
}
