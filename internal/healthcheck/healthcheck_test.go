package healthcheck_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-horust/horust/internal/config"
	"github.com/go-horust/horust/internal/event"
	"github.com/go-horust/horust/internal/healthcheck"
)

func TestChecker_IgnoresServiceUntilStarted(t *testing.T) {
	services := []config.Service{{
		Name:        "web",
		Healthiness: config.Healthiness{Interval: config.Duration(0)},
	}}

	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	c := healthcheck.New(bus, services)
	done := make(chan struct{})
	go func() {
		c.Run()
		close(done)
	}()

	select {
	case ev := <-observer.Inbox():
		t.Fatalf("should not probe before ServiceStarted, got %v", ev)
	case <-time.After(1500 * time.Millisecond):
	}

	observer.Publish(event.NewShutdownCompleted())
	<-done
	observer.Close()
	bus.Wait()
}

func TestChecker_ProbesAssoonAsServiceStarts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	services := []config.Service{{
		Name: "web",
		Healthiness: config.Healthiness{
			HTTPEndpoint: srv.URL,
			Interval:     config.Duration(10 * time.Millisecond),
		},
	}}

	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	c := healthcheck.New(bus, services)
	done := make(chan struct{})
	go func() {
		c.Run()
		close(done)
	}()

	observer.Publish(event.NewServiceStarted("web"))

	select {
	case ev := <-observer.Inbox():
		assert.Equal(t, event.HealthCheck, ev.Kind)
		assert.Equal(t, event.Healthy, ev.Health)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a HealthCheck event while still Starting, before any ServiceRunning")
	}

	observer.Publish(event.NewShutdownCompleted())
	<-done
	observer.Close()
	bus.Wait()
}

func TestChecker_HTTPProbeReportsHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	services := []config.Service{{
		Name: "web",
		Healthiness: config.Healthiness{
			HTTPEndpoint: srv.URL,
			Interval:     config.Duration(10 * time.Millisecond),
		},
	}}

	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	c := healthcheck.New(bus, services)
	done := make(chan struct{})
	go func() {
		c.Run()
		close(done)
	}()

	observer.Publish(event.NewServiceStarted("web"))

	select {
	case ev := <-observer.Inbox():
		assert.Equal(t, event.HealthCheck, ev.Kind)
		assert.Equal(t, event.Healthy, ev.Health)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a HealthCheck event")
	}

	observer.Publish(event.NewShutdownCompleted())
	<-done
	observer.Close()
	bus.Wait()
}

func TestChecker_FileProbeReportsUnhealthyWhenMissing(t *testing.T) {
	services := []config.Service{{
		Name: "job",
		Healthiness: config.Healthiness{
			FilePath: "/nonexistent/path/for/test",
			Interval: config.Duration(10 * time.Millisecond),
		},
	}}

	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	c := healthcheck.New(bus, services)
	done := make(chan struct{})
	go func() {
		c.Run()
		close(done)
	}()

	observer.Publish(event.NewServiceStarted("job"))

	select {
	case ev := <-observer.Inbox():
		assert.Equal(t, event.Unhealthy, ev.Health)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a HealthCheck event")
	}

	observer.Publish(event.NewShutdownCompleted())
	<-done
	observer.Close()
	bus.Wait()
}

func TestChecker_FileProbeReportsHealthyWhenPresent(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "present")
	require.NoError(t, err)
	f.Close()

	services := []config.Service{{
		Name: "job",
		Healthiness: config.Healthiness{
			FilePath: f.Name(),
			Interval: config.Duration(10 * time.Millisecond),
		},
	}}

	bus := event.New()
	observer := bus.Join()
	go bus.Run()

	c := healthcheck.New(bus, services)
	done := make(chan struct{})
	go func() {
		c.Run()
		close(done)
	}()

	observer.Publish(event.NewServiceStarted("job"))

	select {
	case ev := <-observer.Inbox():
		assert.Equal(t, event.Healthy, ev.Health)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a HealthCheck event")
	}

	observer.Publish(event.NewShutdownCompleted())
	<-done
	observer.Close()
	bus.Wait()
}
