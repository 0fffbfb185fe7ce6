package event

import (
	"sync"
	"sync/atomic"
)

// inboxSize bounds how far one endpoint may lag behind the dispatcher before
// a publisher blocks on it. Backpressure, not capacity planning: any value
// greater than zero preserves the no-drop contract.
const inboxSize = 64

// Endpoint is the bidirectional handle a worker gets from Join: an inbox to
// read and a Publish method to write. A worker must never hold a reference
// to another worker, only to its own Endpoint.
type Endpoint struct {
	bus       *Bus
	inbox     chan Event
	closed    int32
	closeOnce sync.Once
}

// Inbox returns the channel this endpoint receives broadcast events on.
func (e *Endpoint) Inbox() <-chan Event {
	return e.inbox
}

// Publish broadcasts ev to every other joined endpoint. It blocks until the
// dispatcher has accepted it; the dispatcher in turn blocks on any recipient
// whose inbox is full. Publish must not be called after Close.
func (e *Endpoint) Publish(ev Event) {
	e.bus.publish(e, ev)
}

// Close withdraws this endpoint from the bus. Once every joined endpoint has
// closed, the bus's dispatch loop drains and Run returns.
func (e *Endpoint) Close() {
	e.closeOnce.Do(func() {
		atomic.StoreInt32(&e.closed, 1)
		e.bus.mu.Lock()
		delete(e.bus.endpoints, e)
		e.bus.mu.Unlock()
		e.bus.wg.Done()
	})
}

type published struct {
	sender *Endpoint
	ev     Event
}

// Bus is a process-local, in-memory multi-producer/multi-consumer broadcast
// channel: the single synchronization point between supervision workers.
type Bus struct {
	mu        sync.Mutex
	endpoints map[*Endpoint]struct{}
	ingress   chan published
	wg        sync.WaitGroup
	done      chan struct{}
}

// New constructs a bus with no endpoints joined yet. Call Join for every
// worker before calling Run.
func New() *Bus {
	b := &Bus{
		endpoints: make(map[*Endpoint]struct{}),
		ingress:   make(chan published),
		done:      make(chan struct{}),
	}
	go func() {
		b.wg.Wait()
		close(b.ingress)
	}()
	return b
}

// Join registers a new endpoint. Must be called before Run begins
// dispatching; joining after Run has started draining is undefined.
func (b *Bus) Join() *Endpoint {
	e := &Endpoint{inbox: make(chan Event, inboxSize)}
	e.bus = b
	b.mu.Lock()
	b.endpoints[e] = struct{}{}
	b.mu.Unlock()
	b.wg.Add(1)
	return e
}

func (b *Bus) publish(sender *Endpoint, ev Event) {
	b.ingress <- published{sender: sender, ev: ev}
}

// Run consumes published events and delivers a copy of each to every other
// endpoint's inbox, preserving FIFO order per publisher. It returns once all
// endpoints have closed and the ingress channel has drained.
func (b *Bus) Run() {
	for p := range b.ingress {
		b.mu.Lock()
		recipients := make([]*Endpoint, 0, len(b.endpoints))
		for ep := range b.endpoints {
			if ep != p.sender {
				recipients = append(recipients, ep)
			}
		}
		b.mu.Unlock()

		for _, ep := range recipients {
			if atomic.LoadInt32(&ep.closed) == 1 {
				continue
			}
			ep.inbox <- p.ev
		}
	}
	close(b.done)
}

// Wait blocks until Run has returned.
func (b *Bus) Wait() {
	<-b.done
}
