package ports

import "os/exec"

// ProcessControl configures OS-level process attributes not covered by
// credentials or signaling: process groups and signal-mask inheritance.
type ProcessControl interface {
	// SetProcessGroup configures cmd to start in its own, new process group
	// so that a later ForwardToGroup reaches it and every descendant it
	// spawns, and clears any inherited signal mask before exec.
	SetProcessGroup(cmd *exec.Cmd)

	// GetProcessGroup returns the process group ID for a running process.
	GetProcessGroup(pid int) (int, error)
}

// Exited describes one child process harvested by a ZombieReaper: its PID
// and either its exit code (ExitStatus) or, when Signaled is set, the
// signal that terminated it.
type Exited struct {
	PID        int
	ExitStatus int
	Signaled   bool
	Signal     int
}

// ZombieReaper harvests exited child processes so they never remain as
// zombies, including orphans reparented to this process as subreaper.
type ZombieReaper interface {
	// ReapAll drains every terminated child with a non-blocking wait-any
	// call, looping until none remain. Safe to call repeatedly; returns an
	// empty slice when there is nothing to reap.
	ReapAll() []Exited
	// IsPID1 reports whether this process is PID 1.
	IsPID1() bool
}
