// Package config loads and validates the declarative service descriptors
// the engine supervises: one YAML file per service, defaults applied,
// cross-service references checked before the engine ever starts.
package config

import "time"

// RestartStrategy selects when a service is restarted after it exits.
type RestartStrategy string

const (
	RestartAlways    RestartStrategy = "always"
	RestartOnFailure RestartStrategy = "on-failure"
	RestartNever     RestartStrategy = "never"
)

// FailureStrategy selects what happens to the rest of the engine when this
// service is declared Failed.
type FailureStrategy string

const (
	FailureIgnore             FailureStrategy = "ignore"
	FailureShutdownGracefully FailureStrategy = "shutdown-gracefully"
	FailureKillAll            FailureStrategy = "kill-all"
)

// HealthcheckKind classifies a resolved Healthiness block.
type HealthcheckKind string

const (
	HealthcheckNone HealthcheckKind = "none"
	HealthcheckHTTP HealthcheckKind = "http"
	HealthcheckFile HealthcheckKind = "file"
)

// Duration wraps time.Duration so descriptors can write "5s" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Environment controls what the child process sees in os.Environ.
//
// KeepEnv is a pointer so the loader can distinguish "the keep-env key was
// omitted" (apply the default) from "the key was explicitly set to false"
// (honor it) — a plain bool cannot represent that distinction, since its
// zero value collides with an explicit false.
type Environment struct {
	KeepEnv    *bool             `yaml:"keep-env,omitempty"`
	Additional map[string]string `yaml:"additional,omitempty"`
}

// KeepsEnv reports whether the child inherits the process environment:
// true unless the descriptor explicitly set keep-env to false.
func (e Environment) KeepsEnv() bool {
	return e.KeepEnv == nil || *e.KeepEnv
}

func boolPtr(b bool) *bool { return &b }

// Restart describes the restart policy for a service.
type Restart struct {
	Strategy RestartStrategy `yaml:"strategy"`
	Backoff  Duration        `yaml:"backoff,omitempty"`
	Attempts int             `yaml:"attempts"`
}

// Healthiness describes at most one liveness probe. An empty value means
// "none": always healthy, emitted once per Interval.
type Healthiness struct {
	HTTPEndpoint string   `yaml:"http-endpoint,omitempty"`
	FilePath     string   `yaml:"file-path,omitempty"`
	Interval     Duration `yaml:"interval,omitempty"`
}

// Kind resolves which probe this Healthiness represents.
func (h Healthiness) Kind() HealthcheckKind {
	switch {
	case h.HTTPEndpoint != "":
		return HealthcheckHTTP
	case h.FilePath != "":
		return HealthcheckFile
	default:
		return HealthcheckNone
	}
}

// Termination describes how a service is asked, then forced, to stop.
type Termination struct {
	Signal string   `yaml:"signal"`
	Wait   Duration `yaml:"wait"`
}

// Failure describes the blast radius of this service entering Failed.
type Failure struct {
	Strategy FailureStrategy `yaml:"strategy"`
}

// Service is one validated, immutable service descriptor.
type Service struct {
	Name             string      `yaml:"name"`
	Command          string      `yaml:"command"`
	WorkingDirectory string      `yaml:"working-directory,omitempty"`
	User             string      `yaml:"user,omitempty"`
	Environment      Environment `yaml:"environment,omitempty"`
	StartAfter       []string    `yaml:"start-after,omitempty"`
	Restart          Restart     `yaml:"restart"`
	Healthiness      Healthiness `yaml:"healthiness,omitempty"`
	Termination      Termination `yaml:"termination"`
	Failure          Failure     `yaml:"failure"`

	// SourceFile is the descriptor file this service was loaded from, or
	// empty for services synthesized from the CLI (sample, single-command
	// mode). Not part of the wire format.
	SourceFile string `yaml:"-"`
}
