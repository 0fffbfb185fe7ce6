// Package kernel provides the OS abstraction the runtime spawns processes
// and reaps children through: signals, credentials, process groups, and
// zombie harvesting, behind small interfaces so the core stays testable.
package kernel

import (
	"github.com/go-horust/horust/internal/kernel/adapters"
	"github.com/go-horust/horust/internal/kernel/ports"
)

// Kernel aggregates the platform-specific implementations of every OS port.
type Kernel struct {
	Signals     ports.SignalManager
	Credentials ports.CredentialManager
	Process     ports.ProcessControl
	Reaper      ports.ZombieReaper
}

// New builds a Kernel wired to the current platform's adapters.
func New() *Kernel {
	return &Kernel{
		Signals:     adapters.NewUnixSignalManager(),
		Credentials: adapters.NewCredentialManager(),
		Process:     adapters.NewProcessControl(),
		Reaper:      adapters.NewZombieReaper(),
	}
}

// Default is the process-wide kernel instance.
var Default = New()
