// Package runtime is the decision center: it owns every service's state,
// is the sole component that spawns processes, applies restart policy, and
// coordinates shutdown. Every other worker only influences it by
// publishing events.
package runtime

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-horust/horust/internal/config"
	"github.com/go-horust/horust/internal/event"
	"github.com/go-horust/horust/internal/kernel"
)

// tick is how often pending timers (restart backoff, termination grace) are
// evaluated. Short enough that a 50ms grace period is honored closely.
const tick = 20 * time.Millisecond

// Runtime owns the full service table and drives each entry's state
// machine from bus events and timer expiry.
type Runtime struct {
	endpoint *event.Endpoint
	kernel   *kernel.Kernel

	order   []string
	entries map[string]*entry

	shuttingDown bool
	completed    bool
}

// New builds a Runtime with one Initial entry per service.
func New(bus *event.Bus, k *kernel.Kernel, services []config.Service) *Runtime {
	r := &Runtime{
		endpoint: bus.Join(),
		kernel:   k,
		entries:  make(map[string]*entry, len(services)),
	}
	for _, svc := range services {
		r.entries[svc.Name] = newEntry(svc)
		r.order = append(r.order, svc.Name)
	}
	return r
}

// Run drives the state machine until every entry reaches a terminal
// status, then publishes ShutdownCompleted and returns.
func (r *Runtime) Run() {
	defer r.endpoint.Close()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case ev := <-r.endpoint.Inbox():
			r.handle(ev)
		case now := <-ticker.C:
			r.onTick(now)
		}

		if !r.completed && r.allTerminal() {
			r.completed = true
			r.endpoint.Publish(event.NewShutdownCompleted())
			return
		}
	}
}

// ExitCode reports the process exit code implied by the final service
// states: 0 if every service ended Success or Finished, non-zero if any
// ended Failed.
func (r *Runtime) ExitCode() int {
	for _, e := range r.entries {
		if e.status == Failed {
			return 1
		}
	}
	return 0
}

func (r *Runtime) allTerminal() bool {
	for _, e := range r.entries {
		if !e.status.Terminal() {
			return false
		}
	}
	return true
}

func (r *Runtime) handle(ev event.Event) {
	switch ev.Kind {
	case event.ProcessExited:
		r.onProcessExited(ev)
	case event.HealthCheck:
		r.onHealthCheck(ev)
	case event.ShutdownRequested:
		r.beginShutdown(false)
	}
}

func (r *Runtime) onTick(now time.Time) {
	for _, name := range r.order {
		e := r.entries[name]
		switch e.status {
		case Initial:
			if !r.shuttingDown && e.restartAt.IsZero() && e.dependenciesRunning(r.entries) {
				r.start(e, now)
			} else if !e.restartAt.IsZero() && !now.Before(e.restartAt) {
				e.restartAt = time.Time{}
				if e.dependenciesRunning(r.entries) {
					r.start(e, now)
				}
			}
		case Starting:
			if e.desc.Healthiness.Kind() == config.HealthcheckNone {
				e.setStatus(Running, now)
				log.Info().Str("service", e.desc.Name).Msg("service running")
				r.endpoint.Publish(event.NewServiceRunning(e.desc.Name))
			}
		case InKilling:
			if !e.killAt.IsZero() && !now.Before(e.killAt) {
				r.escalateToKill(e)
			}
		}
	}
}

func (r *Runtime) onHealthCheck(ev event.Event) {
	e, ok := r.entries[ev.Name]
	if !ok {
		return
	}
	switch ev.Health {
	case event.Healthy:
		e.consecutiveUnhealthy = 0
		if e.status == Starting {
			e.setStatus(Running, time.Now())
			log.Info().Str("service", e.desc.Name).Msg("service running")
			r.endpoint.Publish(event.NewServiceRunning(e.desc.Name))
		}
	case event.Unhealthy:
		e.consecutiveUnhealthy++
		if e.status == Running && e.consecutiveUnhealthy >= failureThreshold(e.desc) {
			r.terminate(e, time.Now())
		}
	}
}

func failureThreshold(desc config.Service) int {
	// The state machine takes the debounce count as data: a single
	// Unhealthy is sufficient by default.
	return 1
}

func (r *Runtime) onProcessExited(ev event.Event) {
	var e *entry
	for _, candidate := range r.entries {
		if candidate.pid == ev.PID && (candidate.status == Starting || candidate.status == Running || candidate.status == InKilling) {
			e = candidate
			break
		}
	}
	if e == nil {
		log.Debug().Int("pid", ev.PID).Msg("exited process did not match any tracked service")
		return
	}

	exitCode := ev.ExitStatus
	if ev.Signaled {
		exitCode = 128 + ev.Signal
	}
	now := time.Now()
	wasStarting := e.status == Starting
	wasKilling := e.status == InKilling

	r.endpoint.Publish(event.NewServiceExited(e.desc.Name, exitCode))
	e.pid = 0

	if wasKilling {
		e.setStatus(Finished, now)
		log.Info().Str("service", e.desc.Name).Msg("service finished")
		return
	}

	failureForPolicy := wasStarting || exitCode != 0
	if restartEligible(e, failureForPolicy, r.shuttingDown) {
		e.attemptsUsed++
		e.restartAt = now.Add(e.desc.Restart.Backoff.Duration())
		e.setStatus(Initial, now)
		log.Info().Str("service", e.desc.Name).Int("attempt", e.attemptsUsed).Msg("scheduling restart")
		return
	}

	if failureForPolicy {
		e.setStatus(Failed, now)
		log.Warn().Str("service", e.desc.Name).Int("exit_code", exitCode).Msg("service failed")
		r.onFailure(e)
	} else {
		e.setStatus(Success, now)
		log.Info().Str("service", e.desc.Name).Msg("service succeeded")
	}
}

func (r *Runtime) onFailure(e *entry) {
	switch e.desc.Failure.Strategy {
	case config.FailureKillAll:
		r.beginShutdown(true)
	case config.FailureShutdownGracefully:
		r.beginShutdown(false)
	case config.FailureIgnore, "":
		// no wider effect
	}
}

func (r *Runtime) start(e *entry, now time.Time) {
	argv := config.ShellSplit(e.desc.Command)
	if len(argv) == 0 {
		e.setStatus(Failed, now)
		r.endpoint.Publish(event.NewSpawnFailed(e.desc.Name))
		return
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if e.desc.WorkingDirectory != "" {
		cmd.Dir = e.desc.WorkingDirectory
	}
	cmd.Env = buildEnv(e.desc.Environment)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r.kernel.Process.SetProcessGroup(cmd)

	if e.desc.User != "" {
		uid, gid, err := r.kernel.Credentials.ResolveCredentials(e.desc.User)
		if err != nil {
			log.Error().Str("service", e.desc.Name).Err(err).Msg("resolving credentials")
			e.setStatus(Failed, now)
			r.endpoint.Publish(event.NewSpawnFailed(e.desc.Name))
			return
		}
		if err := r.kernel.Credentials.ApplyCredentials(cmd, uid, gid); err != nil {
			log.Error().Str("service", e.desc.Name).Err(err).Msg("applying credentials")
			e.setStatus(Failed, now)
			r.endpoint.Publish(event.NewSpawnFailed(e.desc.Name))
			return
		}
	}

	if err := cmd.Start(); err != nil {
		log.Error().Str("service", e.desc.Name).Err(err).Msg("spawn failed")
		r.endpoint.Publish(event.NewSpawnFailed(e.desc.Name))
		if restartEligible(e, true, r.shuttingDown) {
			e.attemptsUsed++
			e.restartAt = now.Add(e.desc.Restart.Backoff.Duration())
			e.setStatus(Initial, now)
			return
		}
		e.setStatus(Failed, now)
		r.onFailure(e)
		return
	}

	e.pid = cmd.Process.Pid
	if pgid, err := r.kernel.Process.GetProcessGroup(e.pid); err == nil {
		e.pgid = pgid
	} else {
		e.pgid = e.pid
	}
	e.setStatus(Starting, now)
	log.Info().Str("service", e.desc.Name).Int("pid", e.pid).Msg("service started")
	r.endpoint.Publish(event.NewServiceStarted(e.desc.Name))
	r.endpoint.Publish(event.NewPidChanged(e.desc.Name, e.pid))

	// Without a healthcheck there is nothing to wait for: the service counts
	// as Running at once, so a short-lived command that exits cleanly ends in
	// Success rather than being treated as dying before it ran.
	if e.desc.Healthiness.Kind() == config.HealthcheckNone {
		e.setStatus(Running, now)
		log.Info().Str("service", e.desc.Name).Msg("service running")
		r.endpoint.Publish(event.NewServiceRunning(e.desc.Name))
	}
}

func buildEnv(env config.Environment) []string {
	var out []string
	if env.KeepsEnv() {
		out = append(out, os.Environ()...)
	}
	for k, v := range env.Additional {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	return out
}

// beginShutdown freezes new starts and signals every non-terminal entry.
// force sends SIGKILL immediately instead of the configured termination
// signal plus grace period, used for failure.strategy=kill-all.
func (r *Runtime) beginShutdown(force bool) {
	now := time.Now()
	if r.shuttingDown {
		if force {
			for _, e := range r.entries {
				if e.status == InKilling {
					r.escalateToKill(e)
				}
			}
		}
		return
	}
	r.shuttingDown = true
	log.Info().Bool("force", force).Msg("shutdown requested")

	for _, e := range r.entries {
		switch e.status {
		case Initial:
			e.setStatus(Finished, now)
		case Starting, Running:
			r.terminateWith(e, now, force)
		}
	}
}

func (r *Runtime) terminate(e *entry, now time.Time) {
	r.terminateWith(e, now, false)
}

func (r *Runtime) terminateWith(e *entry, now time.Time, force bool) {
	sigName := e.desc.Termination.Signal
	if force {
		sigName = "KILL"
	}
	sig, ok := r.kernel.Signals.SignalByName(sigName)
	if !ok {
		sig, _ = r.kernel.Signals.SignalByName("TERM")
	}

	if err := r.kernel.Signals.ForwardToGroup(e.pgid, sig); err != nil {
		log.Warn().Str("service", e.desc.Name).Err(err).Msg("forwarding termination signal")
	}

	e.setStatus(InKilling, now)
	if force {
		e.killAt = now
	} else {
		e.killAt = now.Add(e.desc.Termination.Wait.Duration())
	}
	r.endpoint.Publish(event.NewShutdownInitiated(e.desc.Name))
}

func (r *Runtime) escalateToKill(e *entry) {
	kill, _ := r.kernel.Signals.SignalByName("KILL")
	if err := r.kernel.Signals.ForwardToGroup(e.pgid, kill); err != nil {
		if !isNoSuchProcess(err) {
			log.Warn().Str("service", e.desc.Name).Err(err).Msg("forwarding SIGKILL")
		}
	}
	e.killAt = time.Time{}
}

func isNoSuchProcess(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such process")
}
