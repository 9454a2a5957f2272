package systemd

import (
	"context"
	"fmt"
	"time"

	"github.com/mkunit/mkunit/internal/log"
	"github.com/mkunit/mkunit/internal/unit"
)

// JobMode is the mode used when queueing start, stop and restart jobs.
const JobMode = "replace"

// enabledStates are UnitFileState values for which a unit counts as enabled.
var enabledStates = map[string]bool{
	"enabled":         true,
	"enabled-runtime": true,
	"static":          true,
	"alias":           true,
	"indirect":        true,
	"generated":       true,
	"transient":       true,
}

// UnitStatus summarises the runtime state of a unit.
type UnitStatus struct {
	Name           string    `json:"name" yaml:"name"`
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"`
	LoadState      string    `json:"loadState" yaml:"loadState"`
	ActiveState    string    `json:"activeState" yaml:"activeState"`
	SubState       string    `json:"subState" yaml:"subState"`
	UnitFileState  string    `json:"unitFileState,omitempty" yaml:"unitFileState,omitempty"`
	FragmentPath   string    `json:"fragmentPath,omitempty" yaml:"fragmentPath,omitempty"`
	MainPID        uint32    `json:"mainPID,omitempty" yaml:"mainPID,omitempty"`
	Since          time.Time `json:"since,omitempty" yaml:"since,omitempty"`
	Result         string    `json:"result,omitempty" yaml:"result,omitempty"`
	ExecMainStatus int32     `json:"execMainStatus,omitempty" yaml:"execMainStatus,omitempty"`
}

// Active reports whether the unit is active.
func (s *UnitStatus) Active() bool {
	return s.ActiveState == "active"
}

// Enabled reports whether the unit file state counts as enabled.
func (s *UnitStatus) Enabled() bool {
	return enabledStates[s.UnitFileState]
}

// Failed reports whether the unit is in the failed state or its last run did not succeed.
func (s *UnitStatus) Failed() bool {
	return s.ActiveState == "failed" || (s.Result != "" && s.Result != "success")
}

// Lifecycle implements Manager over a systemd D-Bus connection.
type Lifecycle struct {
	connectionFactory ConnectionFactory
	userMode          bool
	logger            log.Logger
}

// NewLifecycle creates a new Lifecycle for the user or system manager.
func NewLifecycle(connectionFactory ConnectionFactory, userMode bool, logger log.Logger) *Lifecycle {
	return &Lifecycle{
		connectionFactory: connectionFactory,
		userMode:          userMode,
		logger:            logger,
	}
}

// UserMode reports whether this lifecycle talks to the user manager.
func (l *Lifecycle) UserMode() bool {
	return l.userMode
}

func (l *Lifecycle) connect(ctx context.Context) (Connection, error) {
	conn, err := l.connectionFactory.NewConnection(ctx, l.userMode)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Reload reloads the service manager configuration.
func (l *Lifecycle) Reload(ctx context.Context) error {
	l.logger.Debug("Reloading systemd daemon configuration", "user", l.userMode)

	conn, err := l.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Reload(ctx); err != nil {
		return NewError("daemon-reload", "manager", err)
	}

	l.logger.Debug("Successfully reloaded systemd daemon")
	return nil
}

// Enable enables a unit file.
func (l *Lifecycle) Enable(ctx context.Context, unitName string) error {
	l.logger.Debug("Enabling unit", "name", unitName)

	conn, err := l.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	carriesInstall, changes, err := conn.EnableUnitFiles(ctx, []string{unitName})
	if err != nil {
		return NewError("enable", unitName, err)
	}
	if !carriesInstall {
		l.logger.Warn("Unit has no [Install] section; enabling created no links", "name", unitName)
	}
	for _, c := range changes {
		l.logger.Debug("Enable change", "type", c.Type, "filename", c.Filename, "destination", c.Destination)
	}

	return nil
}

// Disable disables a unit file.
func (l *Lifecycle) Disable(ctx context.Context, unitName string) error {
	l.logger.Debug("Disabling unit", "name", unitName)

	conn, err := l.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	changes, err := conn.DisableUnitFiles(ctx, []string{unitName})
	if err != nil {
		return NewError("disable", unitName, err)
	}
	for _, c := range changes {
		l.logger.Debug("Disable change", "type", c.Type, "filename", c.Filename, "destination", c.Destination)
	}

	return nil
}

// Start starts a unit and waits for its job.
func (l *Lifecycle) Start(ctx context.Context, unitName string) error {
	return l.runJob(ctx, "start", unitName, func(conn Connection) (<-chan string, error) {
		return conn.StartUnit(ctx, unitName, JobMode)
	})
}

// Stop stops a unit and waits for its job.
func (l *Lifecycle) Stop(ctx context.Context, unitName string) error {
	return l.runJob(ctx, "stop", unitName, func(conn Connection) (<-chan string, error) {
		return conn.StopUnit(ctx, unitName, JobMode)
	})
}

// Restart restarts a unit and waits for its job.
func (l *Lifecycle) Restart(ctx context.Context, unitName string) error {
	return l.runJob(ctx, "restart", unitName, func(conn Connection) (<-chan string, error) {
		return conn.RestartUnit(ctx, unitName, JobMode)
	})
}

func (l *Lifecycle) runJob(ctx context.Context, op, unitName string, queue func(Connection) (<-chan string, error)) error {
	l.logger.Debug("Queueing job", "operation", op, "name", unitName)

	conn, err := l.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := queue(conn)
	if err != nil {
		return NewError(op, unitName, err)
	}

	select {
	case result := <-ch:
		if result != "done" {
			return NewError(op, unitName, &JobError{Result: result})
		}
	case <-ctx.Done():
		return NewError(op, unitName, fmt.Errorf("operation cancelled: %w", ctx.Err()))
	}

	l.logger.Debug("Job finished", "operation", op, "name", unitName)
	return nil
}

// IsActive reports whether the unit's ActiveState is "active".
func (l *Lifecycle) IsActive(ctx context.Context, unitName string) (bool, error) {
	status, err := l.Status(ctx, unitName)
	if err != nil {
		return false, err
	}
	return status.Active(), nil
}

// IsEnabled reports whether the unit's UnitFileState counts as enabled.
func (l *Lifecycle) IsEnabled(ctx context.Context, unitName string) (bool, error) {
	status, err := l.Status(ctx, unitName)
	if err != nil {
		return false, err
	}
	return status.Enabled(), nil
}

// Status returns the status of a unit.
func (l *Lifecycle) Status(ctx context.Context, unitName string) (*UnitStatus, error) {
	conn, err := l.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	props, err := conn.GetUnitProperties(ctx, unitName)
	if err != nil {
		return nil, NewError("status", unitName, err)
	}

	status := &UnitStatus{Name: unitName}
	status.Description, _ = props["Description"].(string)
	status.LoadState, _ = props["LoadState"].(string)
	status.ActiveState, _ = props["ActiveState"].(string)
	status.SubState, _ = props["SubState"].(string)
	status.UnitFileState, _ = props["UnitFileState"].(string)
	status.FragmentPath, _ = props["FragmentPath"].(string)

	if ts, ok := props["ActiveEnterTimestamp"].(uint64); ok && ts > 0 {
		// #nosec G115 - timestamp is from systemd dbus, value is controlled.
		status.Since = time.UnixMicro(int64(ts))
	}

	if kind, ok := unit.TypeOfFile(unitName); ok && kind == unit.Service {
		svc, err := conn.GetUnitTypeProperties(ctx, unitName, "Service")
		if err != nil {
			l.logger.Debug("Could not read service properties", "name", unitName, "error", err)
			return status, nil
		}
		status.MainPID, _ = svc["MainPID"].(uint32)
		status.Result, _ = svc["Result"].(string)
		status.ExecMainStatus, _ = svc["ExecMainStatus"].(int32)
	}

	return status, nil
}
