package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadOptions controls how a directory of descriptors is loaded.
type LoadOptions struct {
	// FailFast, when true, aborts the whole load on the first descriptor
	// that fails to parse. When false (the default), a broken file is
	// logged and skipped, and loading continues with the rest — mirroring
	// the best-effort behavior of the reference implementation this
	// engine's descriptor format derives from.
	FailFast bool

	// OnSkip, if set, is called with the path and error for every
	// descriptor skipped under best-effort loading. Used to surface a log
	// line without coupling this package to a logger.
	OnSkip func(path string, err error)
}

// LoadDir reads every *.yaml/*.yml file in dir as a service descriptor,
// applies defaults, and validates the resulting set as a whole (uniqueness,
// dependency existence, acyclic start-after).
func LoadDir(dir string, opts LoadOptions) ([]Service, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading services directory %s: %w", dir, err)
	}

	var services []Service
	for _, entry := range entries {
		if entry.IsDir() || !isDescriptorFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		svc, err := loadFile(path)
		if err != nil {
			if opts.FailFast {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}
			if opts.OnSkip != nil {
				opts.OnSkip(path, err)
			}
			continue
		}
		services = append(services, svc)
	}

	if err := Validate(services); err != nil {
		return nil, err
	}
	return services, nil
}

func isDescriptorFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func loadFile(path string) (Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Service{}, err
	}

	var svc Service
	if err := yaml.Unmarshal(data, &svc); err != nil {
		return Service{}, fmt.Errorf("parsing yaml: %w", err)
	}

	if svc.Name == "" {
		base := filepath.Base(path)
		svc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	svc.SourceFile = path

	applyDefaults(&svc)
	return svc, nil
}

func applyDefaults(svc *Service) {
	if svc.Restart.Strategy == "" {
		svc.Restart.Strategy = RestartNever
	}
	// keep-env needs no defaulting here: a nil Environment.KeepEnv already
	// means "true" per Environment.KeepsEnv, and an explicit false must
	// survive untouched for the round-trip law to hold.
	if svc.Termination.Signal == "" {
		svc.Termination.Signal = "TERM"
	}
	if svc.Termination.Wait == 0 {
		svc.Termination.Wait = Duration(defaultTerminationWait)
	}
	if svc.Failure.Strategy == "" {
		svc.Failure.Strategy = FailureIgnore
	}
	if svc.Healthiness.Kind() != HealthcheckNone && svc.Healthiness.Interval == 0 {
		svc.Healthiness.Interval = Duration(defaultHealthInterval)
	}
}

// ShellSplit splits a shell-style command line into argv, the same
// whitespace-only convention the rest of the pack uses rather than a full
// shell grammar.
func ShellSplit(command string) []string {
	return strings.Fields(command)
}

// FromCommand builds a synthetic single-service descriptor for the CLI's
// trailing `--` passthrough mode: no dependency graph, never restarted, no
// healthcheck.
func FromCommand(name, command string) Service {
	svc := Service{
		Name:    name,
		Command: command,
	}
	applyDefaults(&svc)
	return svc
}
