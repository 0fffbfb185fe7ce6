//go:build darwin

package adapters

import "github.com/go-horust/horust/internal/kernel/ports"

// registerPlatformSignals is a no-op on Darwin; it has no extra signals
// worth exposing beyond the POSIX baseline.
func registerPlatformSignals(sm *UnixSignalManager) {}

// SetSubreaper is a no-op on Darwin: macOS has no PR_SET_CHILD_SUBREAPER
// equivalent, so orphan reaping there depends on actually running as PID 1.
func (m *UnixSignalManager) SetSubreaper() error {
	return ports.ErrNotSupported
}

// ClearSubreaper is a no-op on Darwin.
func (m *UnixSignalManager) ClearSubreaper() error {
	return nil
}

// IsSubreaper always returns false on Darwin.
func (m *UnixSignalManager) IsSubreaper() (bool, error) {
	return false, nil
}
