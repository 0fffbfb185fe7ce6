package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-horust/horust/internal/config"
)

func writeDescriptor(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDir_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "web.yaml", "command: /bin/true\n")

	services, err := config.LoadDir(dir, config.LoadOptions{})
	require.NoError(t, err)
	require.Len(t, services, 1)

	svc := services[0]
	assert.Equal(t, "web", svc.Name)
	assert.Equal(t, config.RestartNever, svc.Restart.Strategy)
	assert.Equal(t, "TERM", svc.Termination.Signal)
	assert.Equal(t, config.FailureIgnore, svc.Failure.Strategy)
	assert.True(t, svc.Environment.KeepsEnv())
}

func TestLoadDir_ExplicitKeepEnvFalseSurvivesDefaulting(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "web.yaml", "command: /bin/true\nenvironment:\n  keep-env: false\n")

	services, err := config.LoadDir(dir, config.LoadOptions{})
	require.NoError(t, err)
	require.Len(t, services, 1)

	assert.False(t, services[0].Environment.KeepsEnv())
}

func TestLoadDir_IgnoresNonDescriptorFiles(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "web.yaml", "command: /bin/true\n")
	writeDescriptor(t, dir, "README.md", "not a descriptor\n")

	services, err := config.LoadDir(dir, config.LoadOptions{})
	require.NoError(t, err)
	assert.Len(t, services, 1)
}

func TestLoadDir_BestEffortSkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "web.yaml", "command: /bin/true\n")
	writeDescriptor(t, dir, "broken.yaml", "command: [this is not valid\n")

	var skipped []string
	services, err := config.LoadDir(dir, config.LoadOptions{
		OnSkip: func(path string, _ error) { skipped = append(skipped, path) },
	})
	require.NoError(t, err)
	assert.Len(t, services, 1)
	assert.Len(t, skipped, 1)
}

func TestLoadDir_FailFastAbortsOnBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "web.yaml", "command: /bin/true\n")
	writeDescriptor(t, dir, "broken.yaml", "command: [this is not valid\n")

	_, err := config.LoadDir(dir, config.LoadOptions{FailFast: true})
	assert.Error(t, err)
}

func TestLoadDir_ValidatesWholeSet(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "web.yaml", "command: /bin/true\nstart-after: [\"ghost\"]\n")

	_, err := config.LoadDir(dir, config.LoadOptions{})
	assert.ErrorContains(t, err, "not found")
}

func TestFromCommand(t *testing.T) {
	svc := config.FromCommand("adhoc", "/bin/echo hi")
	assert.Equal(t, "adhoc", svc.Name)
	assert.Equal(t, config.RestartNever, svc.Restart.Strategy)
	assert.Equal(t, config.HealthcheckNone, svc.Healthiness.Kind())
}

func TestShellSplit(t *testing.T) {
	assert.Equal(t, []string{"/usr/bin/foo", "--flag", "value"}, config.ShellSplit("/usr/bin/foo --flag value"))
}

func TestSample_IsValid(t *testing.T) {
	sample := config.Sample()
	// The sample's start-after names "database", so the set must contain it.
	database := config.Service{Name: "database", Command: "/bin/true"}
	assert.NoError(t, config.Validate([]config.Service{sample, database}))
}

func TestMarshalSample(t *testing.T) {
	out, err := config.MarshalSample()
	require.NoError(t, err)
	assert.Contains(t, string(out), "my-service")
}
