//go:build freebsd || openbsd || netbsd

package adapters

import "github.com/go-horust/horust/internal/kernel/ports"

// registerPlatformSignals is a no-op on the BSDs this module targets.
func registerPlatformSignals(sm *UnixSignalManager) {}

// SetSubreaper is unsupported on the BSD family: none of FreeBSD, OpenBSD
// or NetBSD expose Linux's PR_SET_CHILD_SUBREAPER. Run as true PID 1 for
// correct orphan reaping on these platforms.
func (m *UnixSignalManager) SetSubreaper() error {
	return ports.ErrNotSupported
}

// ClearSubreaper is a no-op on the BSDs.
func (m *UnixSignalManager) ClearSubreaper() error {
	return nil
}

// IsSubreaper always returns false on the BSDs.
func (m *UnixSignalManager) IsSubreaper() (bool, error) {
	return false, nil
}
