// Package healthcheck periodically probes each started service's declared
// liveness check and publishes the result. Probing begins at ServiceStarted,
// not ServiceRunning, so a declared healthcheck can promote the service out
// of Starting in the first place. It carries no hysteresis itself; the
// runtime decides what to do with a reported Unhealthy.
package healthcheck

import (
	"context"
	"time"

	"github.com/go-horust/horust/internal/config"
	"github.com/go-horust/horust/internal/event"
)

// tickGranularity bounds how often deadlines are evaluated. 1s matches the
// coarsest interval any descriptor is likely to declare without wasting
// cycles on sub-second polling nobody asked for.
const tickGranularity = time.Second

type entry struct {
	probe    prober
	interval time.Duration
	next     time.Time
	active   bool
}

// Checker maintains one entry per declared service and evaluates due probes
// on every tick, from the moment a service starts until it exits.
type Checker struct {
	endpoint *event.Endpoint
	entries  map[string]*entry
	now      func() time.Time
}

// New builds a Checker's probe table from the loaded service set. A service
// is not probed until a ServiceStarted for its name is observed on the bus;
// probing begins immediately so a Healthy result can promote it out of
// Starting, then continues as a liveness check once it is Running.
func New(bus *event.Bus, services []config.Service) *Checker {
	c := &Checker{
		endpoint: bus.Join(),
		entries:  make(map[string]*entry, len(services)),
		now:      time.Now,
	}
	for _, svc := range services {
		interval := svc.Healthiness.Interval.Duration()
		if interval <= 0 {
			interval = 10 * time.Second
		}
		c.entries[svc.Name] = &entry{
			probe:    newProber(svc.Healthiness),
			interval: interval,
		}
	}
	return c
}

// Run evaluates due probes on every tick and reacts to service lifecycle
// events, until ShutdownCompleted arrives.
func (c *Checker) Run() {
	defer c.endpoint.Close()

	ticker := time.NewTicker(tickGranularity)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evaluateDue()
		case ev := <-c.endpoint.Inbox():
			switch ev.Kind {
			case event.ServiceStarted:
				c.markStarted(ev.Name)
			case event.ServiceExited:
				c.markStopped(ev.Name)
			case event.ShutdownCompleted:
				return
			}
		}
	}
}

func (c *Checker) markStarted(name string) {
	e, ok := c.entries[name]
	if !ok {
		return
	}
	e.active = true
	e.next = c.now()
}

func (c *Checker) markStopped(name string) {
	if e, ok := c.entries[name]; ok {
		e.active = false
	}
}

func (c *Checker) evaluateDue() {
	now := c.now()
	for name, e := range c.entries {
		if !e.active || now.Before(e.next) {
			continue
		}
		e.next = now.Add(e.interval)

		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		health := e.probe.probe(ctx)
		cancel()

		c.endpoint.Publish(event.NewHealthCheck(name, health))
	}
}
