// Package engine wires the four supervision workers to a shared bus, runs
// them to completion, and maps the resulting service states to a process
// exit code.
package engine

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-horust/horust/internal/config"
	"github.com/go-horust/horust/internal/event"
	"github.com/go-horust/horust/internal/healthcheck"
	"github.com/go-horust/horust/internal/kernel"
	"github.com/go-horust/horust/internal/kernel/ports"
	"github.com/go-horust/horust/internal/reaper"
	"github.com/go-horust/horust/internal/runtime"
	"github.com/go-horust/horust/internal/signalhandler"
)

// Engine owns the bus and every worker joined to it.
type Engine struct {
	bus *event.Bus
	k   *kernel.Kernel

	handler *signalhandler.Handler
	reaper  *reaper.Reaper
	checker *healthcheck.Checker
	rt      *runtime.Runtime
}

// New constructs the bus and joins every worker. services must already be
// loaded and validated.
func New(k *kernel.Kernel, services []config.Service) *Engine {
	bus := event.New()
	handler := signalhandler.New(bus, k.Signals)

	return &Engine{
		bus:     bus,
		k:       k,
		handler: handler,
		reaper:  reaper.New(bus, k.Reaper, handler.Wake()),
		checker: healthcheck.New(bus, services),
		rt:      runtime.New(bus, k, services),
	}
}

// Run starts every worker, blocks until the service set reaches total
// shutdown, and returns the process exit code implied by the final states.
func (e *Engine) Run() int {
	if err := e.k.Signals.SetSubreaper(); err != nil && !errors.Is(err, ports.ErrNotSupported) {
		log.Warn().Err(err).Msg("could not set child subreaper")
	}

	go e.bus.Run()

	var wg sync.WaitGroup
	workers := []func(){e.handler.Run, e.reaper.Run, e.checker.Run, e.rt.Run}
	wg.Add(len(workers))
	for _, w := range workers {
		w := w
		go func() {
			defer wg.Done()
			w()
		}()
	}

	wg.Wait()
	e.bus.Wait()

	return e.rt.ExitCode()
}
