//go:build linux

package adapters

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// registerPlatformSignals adds Linux-only signals to the manager's table.
func registerPlatformSignals(sm *UnixSignalManager) {
	sm.AddSignal("PWR", syscall.SIGPWR)
	sm.AddSignal("SIGPWR", syscall.SIGPWR)
	sm.AddSignal("STKFLT", syscall.SIGSTKFLT)
	sm.AddSignal("SIGSTKFLT", syscall.SIGSTKFLT)
}

// SetSubreaper marks the process as a child subreaper (PR_SET_CHILD_SUBREAPER,
// Linux >= 3.4), so orphaned descendants reparent here instead of to PID 1.
func (m *UnixSignalManager) SetSubreaper() error {
	return unix.Prctl(unix.PR_SET_CHILD_SUBREAPER, 1, 0, 0, 0)
}

// ClearSubreaper clears the child subreaper flag.
func (m *UnixSignalManager) ClearSubreaper() error {
	return unix.Prctl(unix.PR_SET_CHILD_SUBREAPER, 0, 0, 0, 0)
}

// IsSubreaper reports whether the process currently holds the subreaper flag.
func (m *UnixSignalManager) IsSubreaper() (bool, error) {
	var flag int
	if err := unix.Prctl(unix.PR_GET_CHILD_SUBREAPER, uintptr(unsafe.Pointer(&flag)), 0, 0, 0); err != nil {
		return false, err
	}
	return flag != 0, nil
}
