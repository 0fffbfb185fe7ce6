package healthcheck

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-horust/horust/internal/config"
	"github.com/go-horust/horust/internal/event"
)

// probeTimeout bounds a single HTTP probe so one slow service can never
// delay the tick loop beyond a fixed budget.
const probeTimeout = time.Second

// prober evaluates a single service's liveness.
type prober interface {
	probe(ctx context.Context) event.Health
}

func newProber(h config.Healthiness) prober {
	switch h.Kind() {
	case config.HealthcheckHTTP:
		return &httpProber{url: h.HTTPEndpoint, client: &http.Client{Timeout: probeTimeout}}
	case config.HealthcheckFile:
		return &fileProber{path: h.FilePath}
	default:
		return noneProber{}
	}
}

type httpProber struct {
	url    string
	client *http.Client
}

func (p *httpProber) probe(ctx context.Context) event.Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return event.Unhealthy
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return event.Unhealthy
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return event.Healthy
	}
	return event.Unhealthy
}

type fileProber struct {
	path string
}

func (p *fileProber) probe(context.Context) event.Health {
	if _, err := os.Stat(p.path); err != nil {
		return event.Unhealthy
	}
	return event.Healthy
}

// noneProber backs services with no declared probe: always healthy, emitted
// once per interval so the runtime can still observe a liveness heartbeat.
type noneProber struct{}

func (noneProber) probe(context.Context) event.Health { return event.Healthy }
