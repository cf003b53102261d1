package tracing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/vango-transition/pkg/tracing"
	"github.com/vango-dev/vango-transition/pkg/transition"
	"github.com/vango-dev/vango-transition/pkg/vdom"
	"github.com/vango-dev/vango-transition/pkg/vtest"
)

func setup(t *testing.T, opts ...tracing.Option) (*vtest.Harness, *tracing.Observer, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	obs := tracing.New(append([]tracing.Option{tracing.WithTracerProvider(tp)}, opts...)...)
	return vtest.NewHarness(t, vtest.WithObserver(obs)), obs, sr
}

func panel(h *vtest.Harness) *transition.Root {
	root := h.Root(transition.RootProps{
		Show: transition.Bool(true),
		ChildProps: transition.ChildProps{
			Name:      "panel",
			Enter:     "transition duration-300",
			EnterFrom: "opacity-0",
			EnterTo:   "opacity-100",
			Leave:     "transition duration-200",
			LeaveFrom: "opacity-100",
			LeaveTo:   "opacity-0",
		},
	})
	h.Mount(root, func() *vdom.VNode { return vdom.P("hi") })
	return root
}

func attr(attrs []attribute.KeyValue, key string) attribute.Value {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestSpanPerRun(t *testing.T) {
	h, obs, sr := setup(t)
	root := panel(h)

	h.SetShow(root, false)
	assert.Equal(t, 1, obs.Open())
	assert.Empty(t, sr.Ended())

	h.Settle()
	assert.Zero(t, obs.Open())

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "transition.leave", span.Name())
	assert.Equal(t, "panel", attr(span.Attributes(), "vango.transition.node").AsString())
	assert.False(t, attr(span.Attributes(), "vango.transition.cancelled").AsBool())
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Equal(t, 216*time.Millisecond, span.EndTime().Sub(span.StartTime()))
}

func TestSupersededSpanIsMarkedCancelled(t *testing.T) {
	h, _, sr := setup(t)
	root := panel(h)

	h.SetShow(root, false)
	h.SetShow(root, true)
	h.Settle()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "transition.leave", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.True(t, attr(spans[0].Attributes(), "vango.transition.cancelled").AsBool())
	assert.Equal(t, "transition.enter", spans[1].Name())
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
}

func TestFilterSkipsRuns(t *testing.T) {
	h, obs, sr := setup(t, tracing.WithFilter(func(e transition.Event) bool {
		return e.Direction == transition.Enter
	}))
	root := panel(h)

	h.SetShow(root, false)
	assert.Zero(t, obs.Open())
	h.Settle()
	assert.Empty(t, sr.Ended())
}
