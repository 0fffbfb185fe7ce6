package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-horust/horust/internal/config"
)

func svc(name string, startAfter ...string) config.Service {
	return config.Service{
		Name:       name,
		Command:    "/bin/true",
		StartAfter: startAfter,
		Restart:    config.Restart{Strategy: config.RestartNever},
	}
}

func TestValidate_OK(t *testing.T) {
	err := config.Validate([]config.Service{svc("a"), svc("b", "a")})
	assert.NoError(t, err)
}

func TestValidate_EmptySet(t *testing.T) {
	err := config.Validate(nil)
	assert.Error(t, err)
}

func TestValidate_DuplicateName(t *testing.T) {
	err := config.Validate([]config.Service{svc("a"), svc("a")})
	assert.ErrorContains(t, err, "duplicate")
}

func TestValidate_MissingDependency(t *testing.T) {
	err := config.Validate([]config.Service{svc("b", "ghost")})
	assert.ErrorContains(t, err, "not found")
}

func TestValidate_Cycle(t *testing.T) {
	err := config.Validate([]config.Service{svc("a", "b"), svc("b", "a")})
	assert.ErrorContains(t, err, "cycle")
}

func TestValidate_SelfCycle(t *testing.T) {
	err := config.Validate([]config.Service{svc("a", "a")})
	assert.ErrorContains(t, err, "cycle")
}

func TestValidate_InvalidRestartStrategy(t *testing.T) {
	s := svc("a")
	s.Restart.Strategy = "sometimes"
	err := config.Validate([]config.Service{s})
	assert.ErrorContains(t, err, "restart.strategy")
}

func TestValidate_InvalidSignal(t *testing.T) {
	s := svc("a")
	s.Termination.Signal = "BOGUS"
	err := config.Validate([]config.Service{s})
	assert.ErrorContains(t, err, "signal")
}

func TestValidate_InvalidHTTPEndpoint(t *testing.T) {
	s := svc("a")
	s.Healthiness.HTTPEndpoint = "not a url"
	err := config.Validate([]config.Service{s})
	assert.ErrorContains(t, err, "http-endpoint")
}
