package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vango-transition/pkg/transition"
)

// Default tracer name for transition spans.
const defaultTracerName = "vango-transition"

// Config configures the OpenTelemetry observer.
type Config struct {
	// TracerName is the name of the tracer (default: "vango-transition").
	TracerName string

	// TracerProvider resolves the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// Context is the parent of every span. Default: context.Background().
	Context context.Context

	// Filter determines which runs to trace. Nil traces every run.
	Filter func(transition.Event) bool
}

// Option configures the OpenTelemetry observer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithContext sets the parent context for spans.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// WithFilter sets a filter for runs.
func WithFilter(filter func(transition.Event) bool) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// Observer opens one span per transition run and ends it when the run
// finishes. It implements transition.Observer and, like every observer,
// is only called from the loop goroutine.
//
// Example:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	obs := tracing.New(tracing.WithTracerProvider(tp))
//	rt := transition.NewRuntime(l, host, transition.WithObserver(obs))
type Observer struct {
	tracer trace.Tracer
	ctx    context.Context
	filter func(transition.Event) bool
	spans  map[uint64]trace.Span
}

// New creates an Observer.
func New(opts ...Option) *Observer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Observer{
		tracer: config.TracerProvider.Tracer(config.TracerName),
		ctx:    config.Context,
		filter: config.Filter,
		spans:  make(map[uint64]trace.Span),
	}
}

// TransitionStarted implements transition.Observer.
func (o *Observer) TransitionStarted(e transition.Event) {
	if o.filter != nil && !o.filter(e) {
		return
	}
	_, span := o.tracer.Start(o.ctx, "transition."+e.Direction.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(e.At),
		trace.WithAttributes(
			attribute.String("vango.transition.node", e.Node),
			attribute.String("vango.transition.direction", e.Direction.String()),
			attribute.Int64("vango.transition.seq", int64(e.Seq)),
		),
	)
	o.spans[e.Seq] = span
}

// TransitionFinished implements transition.Observer.
func (o *Observer) TransitionFinished(e transition.Event) {
	span, ok := o.spans[e.Seq]
	if !ok {
		return
	}
	delete(o.spans, e.Seq)

	span.SetAttributes(attribute.Bool("vango.transition.cancelled", e.Cancelled))
	if e.Cancelled {
		span.SetStatus(codes.Error, "superseded")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.At.Add(e.Elapsed)))
}

// CoordinatorIdle implements transition.Observer. Idle notifications are
// recorded as events on the open spans, if any.
func (o *Observer) CoordinatorIdle(owner string) {
	for _, span := range o.spans {
		span.AddEvent("coordinator.idle", trace.WithAttributes(attribute.String("vango.transition.owner", owner)))
	}
}

// Open returns the number of spans still open.
func (o *Observer) Open() int {
	return len(o.spans)
}

var _ transition.Observer = (*Observer)(nil)
