package unit

// Record is the typed data bound into the template of one unit kind.
// The set of implementations is closed: one struct per Type.
type Record interface {
	Kind() Type
	sealed()
}

// Empty string fields are optional and render no line.

// ServiceRecord is bound into the service template.
type ServiceRecord struct {
	Description string
	After       string
	Wants       string
	Requires    string
	ServiceType string
	Exec        string
	WorkDir     string
	User        string
	Group       string
	Restart     string
	RestartSec  uint32
	Env         []string
	EnvFile     string
	Hardening   bool
	WantedBy    string
}

// TimerRecord is bound into the timer template.
type TimerRecord struct {
	Description       string
	OnCalendar        string
	OnBootSec         string
	OnStartupSec      string
	OnActiveSec       string
	OnUnitActiveSec   string
	OnUnitInactiveSec string
	Persistent        bool
	RandomizedDelay   string
	Unit              string
	WantedBy          string
}

// PathRecord is bound into the path template.
type PathRecord struct {
	Description       string
	PathExists        string
	PathExistsGlob    string
	PathChanged       string
	PathModified      string
	DirectoryNotEmpty string
	MakeDirectory     bool
	Unit              string
	WantedBy          string
}

// SocketRecord is bound into the socket template. MaxConnections of zero is unset.
type SocketRecord struct {
	Description    string
	ListenStream   string
	ListenDatagram string
	ListenFIFO     string
	Accept         bool
	MaxConnections uint32
	Unit           string
	WantedBy       string
}

// MountRecord is bound into the mount template.
type MountRecord struct {
	Description string
	What        string
	Where       string
	FSType      string
	Options     string
	WantedBy    string
}

// TargetRecord is bound into the target template.
type TargetRecord struct {
	Description string
	Wants       string
	Requires    string
	After       string
	WantedBy    string
}

func (*ServiceRecord) Kind() Type { return Service }
func (*TimerRecord) Kind() Type   { return Timer }
func (*PathRecord) Kind() Type    { return Path }
func (*SocketRecord) Kind() Type  { return Socket }
func (*MountRecord) Kind() Type   { return Mount }
func (*TargetRecord) Kind() Type  { return Target }

func (*ServiceRecord) sealed() {}
func (*TimerRecord) sealed()   {}
func (*PathRecord) sealed()    {}
func (*SocketRecord) sealed()  {}
func (*MountRecord) sealed()   {}
func (*TargetRecord) sealed()  {}

// NewServiceRecord returns a service record for name running exec, with defaults applied.
func NewServiceRecord(name, exec string) *ServiceRecord {
	return &ServiceRecord{
		Description: name + " service",
		After:       "network.target",
		ServiceType: "simple",
		Exec:        exec,
		Restart:     "on-failure",
		RestartSec:  5,
		WantedBy:    "default.target",
	}
}

// NewTimerRecord returns a timer record that activates name.service.
func NewTimerRecord(name string) *TimerRecord {
	return &TimerRecord{
		Description: name + " timer",
		Unit:        name + Service.Extension(),
		WantedBy:    "timers.target",
	}
}

// NewPathRecord returns a path record that activates name.service.
func NewPathRecord(name string) *PathRecord {
	return &PathRecord{
		Description: name + " path watcher",
		Unit:        name + Service.Extension(),
		WantedBy:    "default.target",
	}
}

// NewSocketRecord returns a socket record with no listener set.
func NewSocketRecord(name string) *SocketRecord {
	return &SocketRecord{
		Description: name + " socket",
		WantedBy:    "sockets.target",
	}
}

// NewMountRecord returns a mount record for what mounted at where.
func NewMountRecord(what, where string) *MountRecord {
	return &MountRecord{
		Description: "Mount " + what + " at " + where,
		What:        what,
		Where:       where,
		WantedBy:    "multi-user.target",
	}
}

// NewTargetRecord returns a target record with no dependencies set.
func NewTargetRecord(name string) *TargetRecord {
	return &TargetRecord{
		Description: name + " target",
		WantedBy:    "default.target",
	}
}
