// Package signalhandler translates asynchronous OS signals into synchronous
// bus events. It never allocates or takes locks from signal-delivery
// context; the only thing that happens on a signal is a channel send.
package signalhandler

import (
	"os"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/go-horust/horust/internal/event"
	"github.com/go-horust/horust/internal/kernel/ports"
)

// Handler converts SIGINT/SIGTERM/SIGQUIT into a ShutdownRequested event and
// SIGCHLD into a wake-up for the reaper.
type Handler struct {
	signals  ports.SignalManager
	endpoint *event.Endpoint

	osSignals chan os.Signal
	wake      chan struct{}

	shutdownSent int32
}

// New installs notification for the signals the engine reacts to. wake is a
// buffered, depth-1 channel: the reaper only needs to know "at least one
// child may have exited", never how many SIGCHLD arrived.
func New(bus *event.Bus, signals ports.SignalManager) *Handler {
	h := &Handler{
		signals:  signals,
		endpoint: bus.Join(),
		wake:     make(chan struct{}, 1),
	}
	h.osSignals = signals.Notify(os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGCHLD)
	return h
}

// Wake returns the channel the reaper should block on between drain passes.
func (h *Handler) Wake() <-chan struct{} {
	return h.wake
}

// Run blocks delivering events until ShutdownCompleted arrives on the bus,
// then uninstalls its signal notifications and returns.
func (h *Handler) Run() {
	defer h.signals.Stop(h.osSignals)
	defer h.endpoint.Close()

	for {
		select {
		case sig := <-h.osSignals:
			h.handle(sig)
		case ev := <-h.endpoint.Inbox():
			if ev.Kind == event.ShutdownCompleted {
				return
			}
		}
	}
}

func (h *Handler) handle(sig os.Signal) {
	switch sig {
	case syscall.SIGCHLD:
		select {
		case h.wake <- struct{}{}:
		default:
		}
	case os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT:
		if atomic.CompareAndSwapInt32(&h.shutdownSent, 0, 1) {
			log.Info().Str("signal", sig.String()).Msg("shutdown requested")
			h.endpoint.Publish(event.NewShutdownRequested())
		}
	}
}
