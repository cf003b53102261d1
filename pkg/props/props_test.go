package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-transition/pkg/vdom"
)

type fakeEvent struct {
	prevented bool
}

func (e *fakeEvent) DefaultPrevented() bool { return e.prevented }

func TestMergeLaterWins(t *testing.T) {
	got := Merge(
		vdom.Props{"id": "a", "class": "x"},
		vdom.Props{"id": "b"},
	)
	assert.Equal(t, vdom.Props{"id": "b", "class": "x"}, got)
}

func TestMergeSingleIsCopy(t *testing.T) {
	in := vdom.Props{"id": "a"}
	out := Merge(in)
	out["id"] = "b"
	assert.Equal(t, "a", in["id"])
	assert.Empty(t, Merge())
}

func TestMergeChainsHandlers(t *testing.T) {
	var calls []string
	got := Merge(
		vdom.Props{"onclick": func(e *fakeEvent) { calls = append(calls, "ours") }},
		vdom.Props{"onclick": func(e *fakeEvent) { calls = append(calls, "theirs") }},
		vdom.Props{"onclick": func() { calls = append(calls, "noargs") }},
	)

	fn, ok := got["onclick"].(func(*fakeEvent))
	require.True(t, ok, "merged handler keeps the first handler's type")

	fn(&fakeEvent{})
	assert.Equal(t, []string{"ours", "theirs", "noargs"}, calls)
}

func TestMergeStopsAtPreventedEvent(t *testing.T) {
	var calls []string
	got := Merge(
		vdom.Props{"onkeydown": func(e *fakeEvent) {
			calls = append(calls, "first")
			e.prevented = true
		}},
		vdom.Props{"onkeydown": func(e *fakeEvent) { calls = append(calls, "second") }},
	)

	got["onkeydown"].(func(*fakeEvent))(&fakeEvent{})
	assert.Equal(t, []string{"first"}, calls)
}

func TestMergeNilEventArg(t *testing.T) {
	count := 0
	got := Merge(
		vdom.Props{"onclick": func(e *fakeEvent) { count++ }},
		vdom.Props{"onclick": func(e *fakeEvent) { count++ }},
	)
	assert.NotPanics(t, func() { got["onclick"].(func(*fakeEvent))(nil) })
	assert.Equal(t, 2, count)
}

func TestMergeNonFuncEventValue(t *testing.T) {
	got := Merge(vdom.Props{"onclick": "alert(1)"}, vdom.Props{"id": "x"})
	assert.Equal(t, "alert(1)", got["onclick"])
}

func TestMergeDisabledDropsInteractionHandlers(t *testing.T) {
	tests := []struct {
		name     string
		disabled vdom.Props
	}{
		{"disabled", vdom.Props{"disabled": true}},
		{"aria-disabled", vdom.Props{"aria-disabled": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noop := func() {}
			got := Merge(
				vdom.Props{"onclick": noop, "onpointerdown": noop, "ontransitionend": noop},
				tt.disabled,
			)
			assert.NotContains(t, got, "onclick")
			assert.NotContains(t, got, "onpointerdown")
			assert.Contains(t, got, "ontransitionend")
		})
	}
}

func TestMergeDisabledFalseKeepsHandlers(t *testing.T) {
	got := Merge(
		vdom.Props{"onclick": func() {}},
		vdom.Props{"disabled": false, "aria-disabled": "false"},
	)
	assert.Contains(t, got, "onclick")
}

func TestCompactAndOmit(t *testing.T) {
	p := vdom.Props{"a": 1, "b": nil, "c": "x"}
	assert.Equal(t, vdom.Props{"a": 1, "c": "x"}, Compact(p))
	assert.Equal(t, vdom.Props{"b": nil}, Omit(p, "a", "c", "missing"))
	assert.Len(t, p, 3)
}
