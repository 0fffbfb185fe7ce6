//go:build unix

// Package adapters provides OS-specific implementations of kernel ports.
package adapters

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/go-horust/horust/internal/kernel/ports"
)

// UnixSignalManager implements ports.SignalManager for Unix systems.
type UnixSignalManager struct {
	signalMap map[string]os.Signal
}

// NewUnixSignalManager creates a SignalManager with the signals every Unix
// variant understands; platform-specific extras are added by registerPlatformSignals.
func NewUnixSignalManager() *UnixSignalManager {
	sm := &UnixSignalManager{
		signalMap: map[string]os.Signal{
			"HUP": syscall.SIGHUP, "SIGHUP": syscall.SIGHUP,
			"INT": syscall.SIGINT, "SIGINT": syscall.SIGINT,
			"QUIT": syscall.SIGQUIT, "SIGQUIT": syscall.SIGQUIT,
			"TERM": syscall.SIGTERM, "SIGTERM": syscall.SIGTERM,
			"KILL": syscall.SIGKILL, "SIGKILL": syscall.SIGKILL,
			"USR1": syscall.SIGUSR1, "SIGUSR1": syscall.SIGUSR1,
			"USR2": syscall.SIGUSR2, "SIGUSR2": syscall.SIGUSR2,
			"CHLD": syscall.SIGCHLD, "SIGCHLD": syscall.SIGCHLD,
		},
	}
	registerPlatformSignals(sm)
	return sm
}

// Notify registers for signal notifications.
func (m *UnixSignalManager) Notify(signals ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)
	return ch
}

// Stop stops signal notifications on the channel.
func (m *UnixSignalManager) Stop(ch chan os.Signal) {
	signal.Stop(ch)
}

// Forward sends a signal to a single process.
func (m *UnixSignalManager) Forward(pid int, sig os.Signal) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return ports.WrapError("find process", err)
	}
	return process.Signal(sig)
}

// ForwardToGroup sends a signal to every process in pgid's process group.
// A negative PID is the kill(2) convention for "the whole group".
func (m *UnixSignalManager) ForwardToGroup(pgid int, sig os.Signal) error {
	unixSig, ok := sig.(syscall.Signal)
	if !ok {
		return ports.ErrSignalNotSupported
	}
	return unix.Kill(-pgid, unixSig)
}

// SignalByName resolves a signal by name, with or without the "SIG" prefix.
func (m *UnixSignalManager) SignalByName(name string) (os.Signal, bool) {
	sig, ok := m.signalMap[name]
	return sig, ok
}

// AddSignal registers a platform-specific signal under a name.
func (m *UnixSignalManager) AddSignal(name string, sig os.Signal) {
	m.signalMap[name] = sig
}
