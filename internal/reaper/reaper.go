// Package reaper harvests exited child processes so they never remain as
// zombies, including orphans reparented to this process as subreaper.
package reaper

import (
	"github.com/rs/zerolog/log"

	"github.com/go-horust/horust/internal/event"
	"github.com/go-horust/horust/internal/kernel/ports"
)

// Reaper drains terminated children on every wake-up and publishes one
// ProcessExited per harvested PID. It does not know which service a PID
// belongs to; attribution is the runtime's job.
type Reaper struct {
	kernel   ports.ZombieReaper
	endpoint *event.Endpoint
	wake     <-chan struct{}
}

// New joins the bus and prepares to drain on signals from wake, which the
// signal handler feeds on every SIGCHLD.
func New(bus *event.Bus, kernel ports.ZombieReaper, wake <-chan struct{}) *Reaper {
	return &Reaper{
		kernel:   kernel,
		endpoint: bus.Join(),
		wake:     wake,
	}
}

// Run drains at least once up front (in case children exited before this
// worker joined), then again on every wake-up, until ShutdownCompleted.
func (r *Reaper) Run() {
	defer r.endpoint.Close()

	r.drain()
	for {
		select {
		case <-r.wake:
			r.drain()
		case ev := <-r.endpoint.Inbox():
			if ev.Kind == event.ShutdownCompleted {
				return
			}
		}
	}
}

func (r *Reaper) drain() {
	for _, exited := range r.kernel.ReapAll() {
		log.Debug().Int("pid", exited.PID).Int("exit_status", exited.ExitStatus).Msg("reaped child")
		r.endpoint.Publish(event.NewProcessExited(exited.PID, exited.ExitStatus, exited.Signaled, exited.Signal))
	}
}
