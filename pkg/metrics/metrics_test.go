package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-transition/pkg/metrics"
	"github.com/vango-dev/vango-transition/pkg/transition"
	"github.com/vango-dev/vango-transition/pkg/vdom"
	"github.com/vango-dev/vango-transition/pkg/vtest"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func labelled(f *dto.MetricFamily, pairs ...string) *dto.Metric {
	if f == nil {
		return nil
	}
	for _, m := range f.GetMetric() {
		match := true
		for i := 0; i+1 < len(pairs); i += 2 {
			found := false
			for _, l := range m.GetLabel() {
				if l.GetName() == pairs[i] && l.GetValue() == pairs[i+1] {
					found = true
				}
			}
			match = match && found
		}
		if match {
			return m
		}
	}
	return nil
}

func fadeRoot(h *vtest.Harness, show bool) *transition.Root {
	return h.Root(transition.RootProps{
		Show: transition.Bool(show),
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
}

func TestObserverRecordsCompletedRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := metrics.New(metrics.WithRegistry(reg))
	h := vtest.NewHarness(t, vtest.WithObserver(obs))
	root := fadeRoot(h, true)
	h.Mount(root, func() *vdom.VNode { return vdom.P("hi") })

	h.SetShow(root, false)
	families := gather(t, reg)
	assert.Equal(t, 1.0, families["vango_transition_in_flight"].GetMetric()[0].GetGauge().GetValue())

	h.Settle()
	families = gather(t, reg)

	started := labelled(families["vango_transition_started_total"], "direction", "leave")
	require.NotNil(t, started)
	assert.Equal(t, 1.0, started.GetCounter().GetValue())

	finished := labelled(families["vango_transition_finished_total"], "direction", "leave", "status", "completed")
	require.NotNil(t, finished)
	assert.Equal(t, 1.0, finished.GetCounter().GetValue())

	hist := labelled(families["vango_transition_duration_seconds"], "direction", "leave")
	require.NotNil(t, hist)
	assert.Equal(t, uint64(1), hist.GetHistogram().GetSampleCount())
	assert.InDelta(t, 0.216, hist.GetHistogram().GetSampleSum(), 0.001, "one frame plus the computed duration")

	assert.Zero(t, families["vango_transition_in_flight"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 1.0, families["vango_transition_idle_total"].GetMetric()[0].GetCounter().GetValue())
}

func TestObserverRecordsCancelledRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("app"), metrics.WithSubsystem("ui"))
	h := vtest.NewHarness(t, vtest.WithObserver(obs))
	root := fadeRoot(h, true)
	h.Mount(root, func() *vdom.VNode { return vdom.P("hi") })

	h.SetShow(root, false)
	h.SetShow(root, true)
	h.Settle()
	families := gather(t, reg)

	cancelled := labelled(families["app_ui_finished_total"], "direction", "leave", "status", "cancelled")
	require.NotNil(t, cancelled)
	assert.Equal(t, 1.0, cancelled.GetCounter().GetValue())

	completed := labelled(families["app_ui_finished_total"], "direction", "enter", "status", "completed")
	require.NotNil(t, completed)
	assert.Equal(t, 1.0, completed.GetCounter().GetValue())

	assert.Nil(t, labelled(families["app_ui_duration_seconds"], "direction", "leave"), "cancelled runs are not timed")
	assert.Zero(t, families["app_ui_in_flight"].GetMetric()[0].GetGauge().GetValue())
}

func TestNewRegistersOncePerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(metrics.WithRegistry(reg))
	assert.Panics(t, func() { metrics.New(metrics.WithRegistry(reg)) })
}
