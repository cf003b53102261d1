package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vango-transition/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "transition.json"

	// YAMLConfigFileName is the name of the YAML configuration file. It is
	// only read when ConfigFileName does not exist.
	YAMLConfigFileName = "transition.yaml"

	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "VANGO_TRANSITION_"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultFrameInterval is the default simulated paint frame.
	DefaultFrameInterval = "16ms"

	// DefaultAddr is the default playground listen address.
	DefaultAddr = "localhost:3300"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vango"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "vango-transition"
)

// Config represents the complete transition.json configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty" env:"LOG_LEVEL"`

	// FrameInterval is the simulated paint frame (e.g., "16ms").
	FrameInterval string `json:"frameInterval,omitempty" yaml:"frameInterval,omitempty" env:"FRAME_INTERVAL"`

	// Playground contains playground server configuration.
	Playground PlaygroundConfig `json:"playground,omitempty" yaml:"playground,omitempty" envPrefix:"PLAYGROUND_"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty" envPrefix:"METRICS_"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty" envPrefix:"TRACING_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PlaygroundConfig contains playground server settings.
type PlaygroundConfig struct {
	// Addr is the address to listen on.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" env:"ADDR"`

	// AllowedOrigins lists origins allowed to open the live socket. Empty
	// means same origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty" env:"ALLOWED_ORIGINS"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics on the playground.
	Enabled bool `json:"enabled" yaml:"enabled" env:"ENABLED"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" env:"NAMESPACE"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled attaches the tracing observer.
	Enabled bool `json:"enabled" yaml:"enabled" env:"ENABLED"`

	// TracerName is the tracer name.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty" env:"TRACER_NAME"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel:      DefaultLogLevel,
		FrameInterval: DefaultFrameInterval,
		Playground: PlaygroundConfig{
			Addr: DefaultAddr,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// transition.json, then transition.yaml. A directory without either yields
// the defaults. Environment overrides are applied last.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	cfg := New()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E140").
			WithSubject(path).
			Wrap(err).
			WithSuggestion("Check that the file exists and is readable")
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E140").
			WithSubject(path).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// path ends in .yaml or .yml.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E140").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E140").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyEnv overlays VANGO_TRANSITION_* variables.
func (c *Config) applyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.New("E140").
			WithDetail("Failed to parse environment: " + err.Error()).
			Wrap(err)
	}
	return nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.FrameInterval == "" {
		c.FrameInterval = DefaultFrameInterval
	}
	if c.Playground.Addr == "" {
		c.Playground.Addr = DefaultAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Frame(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.New("E141").
			WithSubject("logLevel").
			WithDetail("Unknown log level " + quote(c.LogLevel)).
			WithSuggestion("Use one of debug, info, warn or error")
	}
	return level, nil
}

// Frame returns the parsed frame interval.
func (c *Config) Frame() (time.Duration, error) {
	d, err := time.ParseDuration(c.FrameInterval)
	if err != nil || d <= 0 {
		return 0, errors.New("E141").
			WithSubject("frameInterval").
			WithDetail("Frame interval must be a positive duration, got " + quote(c.FrameInterval)).
			WithExample(`"frameInterval": "16ms"`)
	}
	return d, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func quote(s string) string {
	return `"` + s + `"`
}
