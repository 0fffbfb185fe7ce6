//go:build unix

package adapters

import (
	"os/exec"
	"syscall"

	"github.com/go-horust/horust/internal/kernel/ports"
)

// UnixProcessControl implements ports.ProcessControl for Unix systems.
type UnixProcessControl struct{}

// NewProcessControl creates a ProcessControl.
func NewProcessControl() *UnixProcessControl {
	return &UnixProcessControl{}
}

// SetProcessGroup configures cmd to start in its own new process group, so
// a later kill(-pgid, sig) reaches it and everything it spawns. The Go
// runtime does not leave any signal blocked across fork/exec, so a fresh
// SysProcAttr is already enough to clear inherited dispositions; Setpgid is
// the only attribute this needs to set explicitly.
func (m *UnixProcessControl) SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// GetProcessGroup returns the process group ID for a process.
func (m *UnixProcessControl) GetProcessGroup(pid int) (int, error) {
	pgid, err := syscall.Getpgid(pid)
	if err != nil {
		return 0, ports.WrapError("getpgid", err)
	}
	return pgid, nil
}
