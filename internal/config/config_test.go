package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-transition/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultFrameInterval, cfg.FrameInterval)
	assert.Equal(t, DefaultAddr, cfg.Playground.Addr)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Playground.Addr)
	assert.Empty(t, cfg.Path())
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	configJSON := `{
  "logLevel": "debug",
  "frameInterval": "10ms",
  "playground": {"addr": ":8080", "allowedOrigins": ["http://localhost:5173"]},
  "metrics": {"enabled": false}
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(configJSON), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.Path())
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	frame, err := cfg.Frame()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, frame)
	assert.Equal(t, ":8080", cfg.Playground.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Playground.AllowedOrigins)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultNamespace, cfg.Metrics.Namespace, "missing fields keep defaults")
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	configYAML := `
logLevel: warn
tracing:
  enabled: true
  tracerName: panels
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, YAMLConfigFileName), []byte(configYAML), 0644))
	require.True(t, Exists(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "panels", cfg.Tracing.TracerName)
	assert.Equal(t, DefaultFrameInterval, cfg.FrameInterval)
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{"logLevel": "error"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, YAMLConfigFileName), []byte("logLevel: debug\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{"playground": {"addr": ":8080"}}`), 0644))
	t.Setenv("VANGO_TRANSITION_PLAYGROUND_ADDR", ":9090")
	t.Setenv("VANGO_TRANSITION_METRICS_NAMESPACE", "app")
	t.Setenv("VANGO_TRANSITION_FRAME_INTERVAL", "8ms")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Playground.Addr)
	assert.Equal(t, "app", cfg.Metrics.Namespace)
	assert.Equal(t, "8ms", cfg.FrameInterval)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"bad json", ConfigFileName, `{"logLevel": `, "E140"},
		{"bad yaml", YAMLConfigFileName, "logLevel: [", "E140"},
		{"bad level", ConfigFileName, `{"logLevel": "loud"}`, "E141"},
		{"bad frame", ConfigFileName, `{"frameInterval": "-5ms"}`, "E141"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0644))

			_, err := Load(dir)
			var ve *errors.VangoError
			require.True(t, stderrors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.code, ve.Code)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), ConfigFileName))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := New()
			cfg.Metrics.Enabled = false
			cfg.Playground.Addr = ":7000"
			require.NoError(t, cfg.SaveTo(path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.False(t, loaded.Metrics.Enabled)
			assert.Equal(t, ":7000", loaded.Playground.Addr)

			loaded.LogLevel = "debug"
			require.NoError(t, loaded.Save())
			again, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "debug", again.LogLevel)
		})
	}
}
