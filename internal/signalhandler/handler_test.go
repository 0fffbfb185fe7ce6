package signalhandler_test

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-horust/horust/internal/event"
	"github.com/go-horust/horust/internal/kernel/adapters"
	"github.com/go-horust/horust/internal/signalhandler"
)

func TestHandler_SIGTERMPublishesShutdownRequestedOnce(t *testing.T) {
	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	h := signalhandler.New(bus, adapters.NewUnixSignalManager())
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case ev := <-observer.Inbox():
		assert.Equal(t, event.ShutdownRequested, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("did not observe ShutdownRequested")
	}

	select {
	case ev := <-observer.Inbox():
		t.Fatalf("second SIGTERM must not publish again, got %v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	observer.Publish(event.NewShutdownCompleted())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop on ShutdownCompleted")
	}
	observer.Close()
	bus.Wait()
}

func TestHandler_SIGCHLDWakesReaper(t *testing.T) {
	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	h := signalhandler.New(bus, adapters.NewUnixSignalManager())
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGCHLD))

	select {
	case <-h.Wake():
	case <-time.After(time.Second):
		t.Fatal("did not observe a reaper wake-up")
	}

	observer.Publish(event.NewShutdownCompleted())
	<-done
	observer.Close()
	bus.Wait()
}
