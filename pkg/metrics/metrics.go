package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vango-transition/pkg/transition"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "vango").
	Namespace string

	// Subsystem is the metrics subsystem (default: "transition").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for transition duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// DefaultBuckets cover typical CSS transition lengths, in seconds.
var DefaultBuckets = []float64{0.05, 0.1, 0.15, 0.2, 0.3, 0.5, 0.75, 1, 2, 5}

func defaultConfig() Config {
	return Config{
		Namespace: "vango",
		Subsystem: "transition",
		Buckets:   DefaultBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer records transition lifecycle metrics. It implements
// transition.Observer.
//
// Metrics collected:
//   - vango_transition_started_total: Counter of runs by direction
//   - vango_transition_finished_total: Counter of runs by direction and status
//   - vango_transition_duration_seconds: Histogram of completed run durations
//   - vango_transition_in_flight: Gauge of runs started but not finished
//   - vango_transition_idle_total: Counter of coordinator idle notifications
//
// Example:
//
//	obs := metrics.New(metrics.WithNamespace("myapp"))
//	rt := transition.NewRuntime(l, host, transition.WithObserver(obs))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
type Observer struct {
	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	idle     prometheus.Counter
}

// New creates and registers the transition metrics. Registering twice on
// the same registry panics, so create one Observer per registry.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		started: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "started_total",
			Help:        "Total number of transition runs started",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),

		finished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "finished_total",
			Help:        "Total number of transition runs finished, by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"direction", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "duration_seconds",
			Help:        "Duration of completed transition runs in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"direction"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "in_flight",
			Help:        "Number of transition runs in progress",
			ConstLabels: config.ConstLabels,
		}),

		// Owner names are user supplied, so idle notifications are not
		// labelled to keep cardinality bounded.
		idle: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "idle_total",
			Help:        "Total number of coordinators that became idle",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// TransitionStarted implements transition.Observer.
func (o *Observer) TransitionStarted(e transition.Event) {
	o.started.WithLabelValues(e.Direction.String()).Inc()
	o.inFlight.Inc()
}

// TransitionFinished implements transition.Observer.
func (o *Observer) TransitionFinished(e transition.Event) {
	o.inFlight.Dec()
	status := "completed"
	if e.Cancelled {
		status = "cancelled"
	} else {
		o.duration.WithLabelValues(e.Direction.String()).Observe(e.Elapsed.Seconds())
	}
	o.finished.WithLabelValues(e.Direction.String(), status).Inc()
}

// CoordinatorIdle implements transition.Observer.
func (o *Observer) CoordinatorIdle(string) {
	o.idle.Inc()
}

var _ transition.Observer = (*Observer)(nil)
