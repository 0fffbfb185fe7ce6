//go:build unix

package adapters

import (
	"os"
	"syscall"

	"github.com/go-horust/horust/internal/kernel/ports"
)

// UnixZombieReaper implements ports.ZombieReaper with a non-blocking
// wait-any loop over wait4(2).
type UnixZombieReaper struct{}

// NewZombieReaper creates a ZombieReaper.
func NewZombieReaper() *UnixZombieReaper {
	return &UnixZombieReaper{}
}

// ReapAll harvests every child currently in a terminated state, looping
// until wait4 reports none remain. It never blocks: a running child that
// hasn't exited simply isn't returned.
func (r *UnixZombieReaper) ReapAll() []ports.Exited {
	var exited []ports.Exited
	for {
		var status syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &status, syscall.WNOHANG, nil)
		if err != nil || pid <= 0 {
			break
		}
		e := ports.Exited{PID: pid}
		switch {
		case status.Exited():
			e.ExitStatus = status.ExitStatus()
		case status.Signaled():
			e.Signaled = true
			e.Signal = int(status.Signal())
		}
		exited = append(exited, e)
	}
	return exited
}

// IsPID1 reports whether this process is running as PID 1.
func (r *UnixZombieReaper) IsPID1() bool {
	return os.Getpid() == 1
}
