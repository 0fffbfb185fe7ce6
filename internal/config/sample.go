package config

import (
	"gopkg.in/yaml.v3"
)

// Sample returns a fully populated example descriptor, every field set,
// intended for the CLI's --sample-service flag.
func Sample() Service {
	return Service{
		Name:             "my-service",
		Command:          "/usr/bin/my-service --flag value",
		WorkingDirectory: "/var/lib/my-service",
		User:             "nobody",
		Environment: Environment{
			KeepEnv:    boolPtr(true),
			Additional: map[string]string{"LOG_LEVEL": "info"},
		},
		StartAfter: []string{"database"},
		Restart: Restart{
			Strategy: RestartOnFailure,
			Backoff:  Duration(defaultTerminationWait),
			Attempts: 5,
		},
		Healthiness: Healthiness{
			HTTPEndpoint: "http://127.0.0.1:8080/healthz",
			Interval:     Duration(defaultHealthInterval),
		},
		Termination: Termination{
			Signal: "TERM",
			Wait:   Duration(defaultTerminationWait),
		},
		Failure: Failure{
			Strategy: FailureIgnore,
		},
	}
}

// MarshalSample renders Sample() as YAML text.
func MarshalSample() ([]byte, error) {
	return yaml.Marshal(Sample())
}
