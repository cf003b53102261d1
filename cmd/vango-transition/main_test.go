package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-transition/internal/config"
)

const quickScenario = `name: quick
root:
  name: box
  enter: transition duration-200
  enterFrom: opacity-0
  enterTo: opacity-100
  leave: transition duration-200
  leaveFrom: opacity-100
  leaveTo: opacity-0
steps:
  - show: true
  - settle: true
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quick.yaml")
	require.NoError(t, os.WriteFile(path, []byte(quickScenario), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Go version:")
}

func TestTimingCommand(t *testing.T) {
	out, err := execute(t, "timing", "transition", "duration-300", "delay-75")
	require.NoError(t, err)
	assert.Contains(t, out, "duration: 300ms")
	assert.Contains(t, out, "delay:    75ms")
	assert.Contains(t, out, "total:    375ms")

	out, err = execute(t, "timing", "fade", "--style", "transition-duration: 0.2s, 0.5s")
	require.NoError(t, err)
	assert.Contains(t, out, "total:    500ms")
}

func TestSimulateCommand(t *testing.T) {
	path := writeScenario(t)

	out, err := execute(t, "--config", t.TempDir(), "simulate", path, "--metrics", "--spans")
	require.NoError(t, err)
	assert.Contains(t, out, "scenario quick")
	assert.Contains(t, out, "box enter done after 216ms")
	assert.Contains(t, out, "transition.enter")
	assert.Contains(t, out, `vango_transition_finished_total{direction="enter",status="completed"} 1`)
}

func TestSimulateErrors(t *testing.T) {
	_, err := execute(t, "--config", t.TempDir(), "simulate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "--config", t.TempDir(), "--log-level", "loud", "simulate", writeScenario(t))
	assert.Error(t, err)

	_, err = execute(t, "simulate")
	assert.Error(t, err, "a scenario path is required")
}

func TestPlaygroundConfig(t *testing.T) {
	cfg := config.New()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "demo"
	cfg.Tracing.Enabled = true

	pc, err := playgroundConfig(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAddr, pc.Addr)
	assert.NotNil(t, pc.Registry)
	assert.Equal(t, "demo", pc.MetricsNamespace)
	require.NotNil(t, pc.NewObserver)
	assert.NotSame(t, pc.NewObserver("a"), pc.NewObserver("b"))
	assert.Nil(t, pc.Scenario, "the server falls back to the demo")

	cfg = config.New()
	cfg.Metrics.Enabled = false
	pc, err = playgroundConfig(cfg, writeScenario(t))
	require.NoError(t, err)
	assert.Nil(t, pc.Registry)
	assert.Nil(t, pc.NewObserver)
	assert.Equal(t, "quick", pc.Scenario.Name)
}
