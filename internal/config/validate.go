package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/go-horust/horust/internal/kernel"
)

// ValidationError reports one field-level problem found in a descriptor set.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a full descriptor set for internal consistency: per-service
// field validity, name uniqueness, dependency existence, and an acyclic
// start-after graph. Individually valid descriptors can still fail here.
func Validate(services []Service) error {
	var errs []error

	if len(services) == 0 {
		errs = append(errs, ValidationError{Field: "services", Message: "at least one service must be defined"})
	}

	names := make(map[string]bool, len(services))
	for _, svc := range services {
		if svc.Name == "" {
			continue
		}
		if names[svc.Name] {
			errs = append(errs, ValidationError{
				Field:   "services." + svc.Name,
				Message: "duplicate service name",
			})
		}
		names[svc.Name] = true
	}

	for i := range services {
		if err := validateService(&services[i]); err != nil {
			errs = append(errs, err)
		}
	}

	for _, svc := range services {
		for _, dep := range svc.StartAfter {
			if !names[dep] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("services.%s.start-after", svc.Name),
					Message: fmt.Sprintf("dependency %q not found", dep),
				})
			}
		}
	}

	if cyc := findCycle(services); cyc != "" {
		errs = append(errs, ValidationError{
			Field:   "services[*].start-after",
			Message: "cycle detected: " + cyc,
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateService(svc *Service) error {
	var errs []error
	prefix := "services." + svc.Name

	if svc.Name == "" {
		errs = append(errs, ValidationError{Field: "services[].name", Message: "name is required"})
	}
	if svc.Command == "" {
		errs = append(errs, ValidationError{Field: prefix + ".command", Message: "command is required"})
	}

	switch svc.Restart.Strategy {
	case RestartAlways, RestartOnFailure, RestartNever, "":
	default:
		errs = append(errs, ValidationError{
			Field:   prefix + ".restart.strategy",
			Message: fmt.Sprintf("invalid restart strategy %q (must be always, on-failure, or never)", svc.Restart.Strategy),
		})
	}
	if svc.Restart.Attempts < 0 {
		errs = append(errs, ValidationError{Field: prefix + ".restart.attempts", Message: "attempts must be >= 0"})
	}

	switch svc.Failure.Strategy {
	case FailureIgnore, FailureShutdownGracefully, FailureKillAll, "":
	default:
		errs = append(errs, ValidationError{
			Field:   prefix + ".failure.strategy",
			Message: fmt.Sprintf("invalid failure strategy %q", svc.Failure.Strategy),
		})
	}

	if svc.Healthiness.HTTPEndpoint != "" {
		u, err := url.Parse(svc.Healthiness.HTTPEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, ValidationError{
				Field:   prefix + ".healthiness.http-endpoint",
				Message: "must be a valid http or https URL",
			})
		}
	}

	if svc.Termination.Signal != "" {
		if _, ok := kernel.Default.Signals.SignalByName(svc.Termination.Signal); !ok {
			errs = append(errs, ValidationError{
				Field:   prefix + ".termination.signal",
				Message: fmt.Sprintf("unknown signal name %q", svc.Termination.Signal),
			})
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// findCycle runs a DFS over the start-after graph and returns a
// human-readable description of the first cycle found, or "" if acyclic.
func findCycle(services []Service) string {
	deps := make(map[string][]string, len(services))
	for _, svc := range services {
		deps[svc.Name] = svc.StartAfter
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(services))
	var path []string

	var visit func(name string) string
	visit = func(name string) string {
		switch state[name] {
		case done:
			return ""
		case visiting:
			path = append(path, name)
			return formatCycle(path)
		}
		state[name] = visiting
		path = append(path, name)
		for _, dep := range deps[name] {
			if cyc := visit(dep); cyc != "" {
				return cyc
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return ""
	}

	for _, svc := range services {
		if state[svc.Name] == unvisited {
			if cyc := visit(svc.Name); cyc != "" {
				return cyc
			}
		}
	}
	return ""
}

func formatCycle(path []string) string {
	// path ends with the node that closes the cycle; trim the prefix that
	// isn't part of the loop itself.
	start := path[len(path)-1]
	for i, name := range path {
		if name == start {
			path = path[i:]
			break
		}
	}
	out := ""
	for i, name := range path {
		if i > 0 {
			out += " -> "
		}
		out += name
	}
	return out
}
