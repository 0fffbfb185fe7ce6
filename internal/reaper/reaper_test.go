package reaper_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-horust/horust/internal/event"
	"github.com/go-horust/horust/internal/kernel/ports"
	"github.com/go-horust/horust/internal/reaper"
)

type fakeZombieReaper struct {
	calls   int32
	batches [][]ports.Exited
}

func (f *fakeZombieReaper) ReapAll() []ports.Exited {
	n := atomic.AddInt32(&f.calls, 1) - 1
	if int(n) < len(f.batches) {
		return f.batches[n]
	}
	return nil
}

func (f *fakeZombieReaper) IsPID1() bool { return false }

func TestReaper_PublishesProcessExitedForEachHarvestedChild(t *testing.T) {
	fake := &fakeZombieReaper{batches: [][]ports.Exited{
		{{PID: 100, ExitStatus: 0}},
	}}
	wake := make(chan struct{}, 1)

	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	r := reaper.New(bus, fake, wake)
	done := make(chan struct{})
	go func() {
		r.Run()
		close(done)
	}()

	select {
	case ev := <-observer.Inbox():
		assert.Equal(t, event.ProcessExited, ev.Kind)
		assert.Equal(t, 100, ev.PID)
	case <-time.After(time.Second):
		t.Fatal("expected an initial drain even without a wake-up")
	}

	observer.Publish(event.NewShutdownCompleted())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop on ShutdownCompleted")
	}
	observer.Close()
	bus.Wait()
}

func TestReaper_DrainsAgainOnWake(t *testing.T) {
	fake := &fakeZombieReaper{batches: [][]ports.Exited{
		nil,
		{{PID: 200, ExitStatus: 1}},
	}}
	wake := make(chan struct{}, 1)

	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	r := reaper.New(bus, fake, wake)
	done := make(chan struct{})
	go func() {
		r.Run()
		close(done)
	}()

	wake <- struct{}{}

	select {
	case ev := <-observer.Inbox():
		assert.Equal(t, 200, ev.PID)
	case <-time.After(time.Second):
		t.Fatal("expected a ProcessExited after the wake-up")
	}

	observer.Publish(event.NewShutdownCompleted())
	<-done
	observer.Close()
	bus.Wait()
}
