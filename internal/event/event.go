// Package event defines the single typed currency every supervision worker
// exchanges — the bus never carries anything else — and the bus itself.
package event

// Kind discriminates the variant carried by an Event.
type Kind int

const (
	ServiceStarted Kind = iota
	ServiceRunning
	ServiceExited
	HealthCheck
	ForceKill
	SpawnFailed
	ShutdownRequested
	ShutdownInitiated
	PidChanged

	// ProcessExited and ShutdownCompleted cross the Reaper/Runtime and
	// Runtime/Bus boundaries respectively. They are bus-internal: real
	// traffic on the bus, but never part of the public per-service event
	// vocabulary a service descriptor author would reason about.
	ProcessExited
	ShutdownCompleted
)

func (k Kind) String() string {
	switch k {
	case ServiceStarted:
		return "ServiceStarted"
	case ServiceRunning:
		return "ServiceRunning"
	case ServiceExited:
		return "ServiceExited"
	case HealthCheck:
		return "HealthCheck"
	case ForceKill:
		return "ForceKill"
	case SpawnFailed:
		return "SpawnFailed"
	case ShutdownRequested:
		return "ShutdownRequested"
	case ShutdownInitiated:
		return "ShutdownInitiated"
	case PidChanged:
		return "PidChanged"
	case ProcessExited:
		return "ProcessExited"
	case ShutdownCompleted:
		return "ShutdownCompleted"
	default:
		return "Unknown"
	}
}

// Health is the outcome of a single probe evaluation.
type Health int

const (
	Healthy Health = iota
	Unhealthy
)

func (h Health) String() string {
	if h == Healthy {
		return "Healthy"
	}
	return "Unhealthy"
}

// Event is a value-typed, cheaply copyable tagged variant. It carries no
// reference to a live process — only names, PIDs, and exit codes.
type Event struct {
	Kind Kind

	// Name identifies the service this event concerns. Unset for
	// ShutdownRequested, ShutdownCompleted, and ProcessExited.
	Name string

	// ExitCode is valid for ServiceExited.
	ExitCode int

	// Health is valid for HealthCheck.
	Health Health

	// PID is valid for PidChanged and ProcessExited.
	PID int

	// ExitStatus, Signaled and Signal are valid for ProcessExited: the exit
	// code of a normally exited child, or the terminating signal when
	// Signaled is set, as the Reaper observed them before the Runtime has
	// attributed them to a service.
	ExitStatus int
	Signaled   bool
	Signal     int
}

func NewServiceStarted(name string) Event { return Event{Kind: ServiceStarted, Name: name} }
func NewServiceRunning(name string) Event { return Event{Kind: ServiceRunning, Name: name} }
func NewServiceExited(name string, exitCode int) Event {
	return Event{Kind: ServiceExited, Name: name, ExitCode: exitCode}
}
func NewHealthCheck(name string, h Health) Event {
	return Event{Kind: HealthCheck, Name: name, Health: h}
}
func NewForceKill(name string) Event         { return Event{Kind: ForceKill, Name: name} }
func NewSpawnFailed(name string) Event       { return Event{Kind: SpawnFailed, Name: name} }
func NewShutdownRequested() Event            { return Event{Kind: ShutdownRequested} }
func NewShutdownInitiated(name string) Event { return Event{Kind: ShutdownInitiated, Name: name} }
func NewPidChanged(name string, pid int) Event {
	return Event{Kind: PidChanged, Name: name, PID: pid}
}
func NewProcessExited(pid, exitStatus int, signaled bool, signal int) Event {
	return Event{Kind: ProcessExited, PID: pid, ExitStatus: exitStatus, Signaled: signaled, Signal: signal}
}
func NewShutdownCompleted() Event { return Event{Kind: ShutdownCompleted} }
