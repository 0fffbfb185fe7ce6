// Package main provides the entry point for the daemon process supervisor.
// daemon is a PID1-capable process supervisor designed to run in containers:
// it spawns a declared set of services, monitors their health, restarts
// them according to policy, reaps orphaned descendants, and coordinates an
// orderly shutdown on termination signals.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-horust/horust/internal/config"
	"github.com/go-horust/horust/internal/engine"
	"github.com/go-horust/horust/internal/kernel"
)

var (
	servicesPath  string
	sampleService bool
	failFast      bool
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "A process supervisor and PID 1 init for containers",
		Args:  cobra.ArbitraryArgs,
		RunE:  runDaemon,
	}
	cmd.Flags().StringVar(&servicesPath, "services-path", "", "directory of service descriptor YAML files")
	cmd.Flags().BoolVar(&sampleService, "sample-service", false, "print a fully populated example descriptor and exit")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "abort loading on the first descriptor that fails to parse")
	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if sampleService {
		out, err := config.MarshalSample()
		if err != nil {
			return fmt.Errorf("rendering sample descriptor: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	services, err := loadServices(cmd, args)
	if err != nil {
		return err
	}

	eng := engine.New(kernel.Default, services)
	code := eng.Run()
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

// loadServices resolves the two mutually exclusive input modes: a
// descriptor directory, or a trailing `--` single-command passthrough.
func loadServices(cmd *cobra.Command, args []string) ([]config.Service, error) {
	dashAt := cmd.ArgsLenAtDash()
	if dashAt >= 0 && len(args) > dashAt {
		passthrough := args[dashAt:]
		name := "adhoc"
		if len(passthrough) > 0 {
			name = passthrough[0]
		}
		command := passthrough[0]
		for _, a := range passthrough[1:] {
			command += " " + a
		}
		return []config.Service{config.FromCommand(name, command)}, nil
	}

	if servicesPath == "" {
		return nil, fmt.Errorf("one of --services-path or a trailing -- command is required")
	}

	services, err := config.LoadDir(servicesPath, config.LoadOptions{
		FailFast: failFast,
		OnSkip: func(path string, err error) {
			log.Warn().Str("path", path).Err(err).Msg("skipping unparseable descriptor")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("loading service descriptors: %w", err)
	}
	return services, nil
}
