package runtime

import (
	"time"

	"github.com/go-horust/horust/internal/config"
)

// entry is the mutable per-service record the Runtime owns exclusively.
// Nothing outside the Runtime's own event loop ever touches it.
type entry struct {
	desc config.Service

	status          Status
	pid             int
	pgid            int
	attemptsUsed    int
	lastStateChange time.Time

	consecutiveUnhealthy int

	// restartAt is non-zero while a restart is scheduled after backoff.
	restartAt time.Time
	// killAt is the SIGKILL deadline while InKilling; zero means none armed.
	killAt time.Time
}

func newEntry(desc config.Service) *entry {
	return &entry{desc: desc, status: Initial}
}

func (e *entry) setStatus(s Status, now time.Time) {
	e.status = s
	e.lastStateChange = now
}

// dependenciesRunning reports whether every start_after name is Running in
// the given table.
func (e *entry) dependenciesRunning(entries map[string]*entry) bool {
	for _, dep := range e.desc.StartAfter {
		d, ok := entries[dep]
		if !ok || d.status != Running {
			return false
		}
	}
	return true
}
