package systemd

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-systemd/v22/dbus"
)

// MockConnection implements Connection interface for testing.
type MockConnection struct {
	GetUnitPropertiesFunc     func(ctx context.Context, unitName string) (map[string]interface{}, error)
	GetUnitTypePropertiesFunc func(ctx context.Context, unitName, unitType string) (map[string]interface{}, error)
	StartUnitFunc             func(ctx context.Context, unitName, mode string) (<-chan string, error)
	StopUnitFunc              func(ctx context.Context, unitName, mode string) (<-chan string, error)
	RestartUnitFunc           func(ctx context.Context, unitName, mode string) (<-chan string, error)
	EnableUnitFilesFunc       func(ctx context.Context, files []string) (bool, []dbus.EnableUnitFileChange, error)
	DisableUnitFilesFunc      func(ctx context.Context, files []string) ([]dbus.DisableUnitFileChange, error)
	ReloadFunc                func(ctx context.Context) error
	CloseFunc                 func() error

	mu     sync.Mutex
	closed int
}

// GetUnitProperties gets the unit properties of a systemd unit.
func (m *MockConnection) GetUnitProperties(ctx context.Context, unitName string) (map[string]interface{}, error) {
	if m.GetUnitPropertiesFunc != nil {
		return m.GetUnitPropertiesFunc(ctx, unitName)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// GetUnitTypeProperties gets the type-specific properties of a systemd unit.
func (m *MockConnection) GetUnitTypeProperties(ctx context.Context, unitName, unitType string) (map[string]interface{}, error) {
	if m.GetUnitTypePropertiesFunc != nil {
		return m.GetUnitTypePropertiesFunc(ctx, unitName, unitType)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// StartUnit starts a systemd unit.
func (m *MockConnection) StartUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	if m.StartUnitFunc != nil {
		return m.StartUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// StopUnit stops a systemd unit.
func (m *MockConnection) StopUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	if m.StopUnitFunc != nil {
		return m.StopUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// RestartUnit restarts a systemd unit.
func (m *MockConnection) RestartUnit(ctx context.Context, unitName, mode string) (<-chan string, error) {
	if m.RestartUnitFunc != nil {
		return m.RestartUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// EnableUnitFiles enables unit files.
func (m *MockConnection) EnableUnitFiles(ctx context.Context, files []string) (bool, []dbus.EnableUnitFileChange, error) {
	if m.EnableUnitFilesFunc != nil {
		return m.EnableUnitFilesFunc(ctx, files)
	}
	return false, nil, fmt.Errorf("mock not implemented")
}

// DisableUnitFiles disables unit files.
func (m *MockConnection) DisableUnitFiles(ctx context.Context, files []string) ([]dbus.DisableUnitFileChange, error) {
	if m.DisableUnitFilesFunc != nil {
		return m.DisableUnitFilesFunc(ctx, files)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// Reload reloads systemd configuration.
func (m *MockConnection) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return nil
}

// Close closes the connection.
func (m *MockConnection) Close() error {
	m.mu.Lock()
	m.closed++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// CloseCount returns how many times Close was called.
func (m *MockConnection) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// JobResult returns a closed channel carrying a single job result.
func JobResult(result string) <-chan string {
	ch := make(chan string, 1)
	ch <- result
	close(ch)
	return ch
}

// MockConnectionFactory implements ConnectionFactory interface for testing.
type MockConnectionFactory struct {
	NewConnectionFunc func(ctx context.Context, userMode bool) (Connection, error)
	Connection        Connection
}

// NewConnection returns the configured connection.
func (m *MockConnectionFactory) NewConnection(ctx context.Context, userMode bool) (Connection, error) {
	if m.NewConnectionFunc != nil {
		return m.NewConnectionFunc(ctx, userMode)
	}
	if m.Connection != nil {
		return m.Connection, nil
	}
	return nil, fmt.Errorf("mock not configured")
}

// MockManager implements Manager interface for testing and records every call.
type MockManager struct {
	ReloadFunc    func(ctx context.Context) error
	EnableFunc    func(ctx context.Context, unitName string) error
	DisableFunc   func(ctx context.Context, unitName string) error
	StartFunc     func(ctx context.Context, unitName string) error
	StopFunc      func(ctx context.Context, unitName string) error
	RestartFunc   func(ctx context.Context, unitName string) error
	IsActiveFunc  func(ctx context.Context, unitName string) (bool, error)
	IsEnabledFunc func(ctx context.Context, unitName string) (bool, error)
	StatusFunc    func(ctx context.Context, unitName string) (*UnitStatus, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockManager) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

// Calls returns the recorded calls as "operation" or "operation unit".
func (m *MockManager) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reload reloads unit files.
func (m *MockManager) Reload(ctx context.Context) error {
	m.record("reload")
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return nil
}

// Enable enables a unit.
func (m *MockManager) Enable(ctx context.Context, unitName string) error {
	m.record("enable " + unitName)
	if m.EnableFunc != nil {
		return m.EnableFunc(ctx, unitName)
	}
	return nil
}

// Disable disables a unit.
func (m *MockManager) Disable(ctx context.Context, unitName string) error {
	m.record("disable " + unitName)
	if m.DisableFunc != nil {
		return m.DisableFunc(ctx, unitName)
	}
	return nil
}

// Start starts a unit.
func (m *MockManager) Start(ctx context.Context, unitName string) error {
	m.record("start " + unitName)
	if m.StartFunc != nil {
		return m.StartFunc(ctx, unitName)
	}
	return nil
}

// Stop stops a unit.
func (m *MockManager) Stop(ctx context.Context, unitName string) error {
	m.record("stop " + unitName)
	if m.StopFunc != nil {
		return m.StopFunc(ctx, unitName)
	}
	return nil
}

// Restart restarts a unit.
func (m *MockManager) Restart(ctx context.Context, unitName string) error {
	m.record("restart " + unitName)
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, unitName)
	}
	return nil
}

// IsActive reports whether a unit is active.
func (m *MockManager) IsActive(ctx context.Context, unitName string) (bool, error) {
	m.record("is-active " + unitName)
	if m.IsActiveFunc != nil {
		return m.IsActiveFunc(ctx, unitName)
	}
	return false, nil
}

// IsEnabled reports whether a unit is enabled.
func (m *MockManager) IsEnabled(ctx context.Context, unitName string) (bool, error) {
	m.record("is-enabled " + unitName)
	if m.IsEnabledFunc != nil {
		return m.IsEnabledFunc(ctx, unitName)
	}
	return false, nil
}

// Status returns a unit status.
func (m *MockManager) Status(ctx context.Context, unitName string) (*UnitStatus, error) {
	m.record("status " + unitName)
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, unitName)
	}
	return &UnitStatus{Name: unitName, LoadState: "loaded", ActiveState: "inactive", SubState: "dead"}, nil
}
