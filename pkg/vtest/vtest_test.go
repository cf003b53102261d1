package vtest_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-transition/pkg/dom"
	"github.com/vango-dev/vango-transition/pkg/transition"
	"github.com/vango-dev/vango-transition/pkg/vdom"
	"github.com/vango-dev/vango-transition/pkg/vtest"
)

// fakeTB records failures instead of failing the real test.
type fakeTB struct {
	testing.TB
	errors []string
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func TestRenderToString(t *testing.T) {
	html := vtest.RenderToString(vdom.Div(vdom.Class("a b"), vdom.Text("hi")))
	assert.Equal(t, `<div class="a b">hi</div>`, html)
	assert.Empty(t, vtest.RenderToString(nil))
}

func TestExpectations(t *testing.T) {
	node := vdom.Div(vdom.ID("box"), vdom.Class("panel opacity-100"), vdom.Text("hello"))

	vtest.ExpectContains(t, node, "hello")
	vtest.ExpectNotContains(t, node, "opacity-0")
	vtest.ExpectClasses(t, node, "opacity-100", "panel")
	vtest.ExpectAttribute(t, node, "id", "box")

	f := &fakeTB{TB: t}
	vtest.ExpectContains(f, node, "goodbye")
	vtest.ExpectNotContains(f, node, "hello")
	vtest.ExpectClasses(f, node, "panel")
	vtest.ExpectClasses(f, node, "panel", "panel")
	vtest.ExpectAttribute(f, node, "id", "other")
	assert.Len(t, f.errors, 5)
}

func TestHarnessTimeline(t *testing.T) {
	h := vtest.NewHarness(t, vtest.WithFrameInterval(10*time.Millisecond))
	root := h.Root(transition.RootProps{
		Show: transition.Bool(true),
		ChildProps: transition.ChildProps{
			Attrs:      vdom.Props{"id": "box"},
			Leave:      "transition duration-100",
			LeaveTo:    "opacity-0",
			AfterLeave: h.Record("afterLeave"),
		},
	})
	h.Mount(root, func() *vdom.VNode { return vdom.P("hi") })
	assert.Empty(t, h.Timeline())

	start := h.Loop.Now()
	h.SetShow(root, false)
	h.Settle()

	assert.Nil(t, root.Output())
	assert.Equal(t, 110*time.Millisecond, h.Loop.Now().Sub(start))
	assert.Equal(t, []string{
		"add-class div#box transition duration-100",
		"add-class div#box opacity-0",
		"remove-class div#box transition duration-100 opacity-0",
		"afterLeave",
	}, h.Timeline())
	assert.Less(t, h.Index("add-class div#box opacity-0"), h.Index("afterLeave"))
	assert.Equal(t, -1, h.Index("beforeLeave"))

	h.ResetTimeline()
	assert.Empty(t, h.Timeline())
}

func TestHarnessTiming(t *testing.T) {
	h := vtest.NewHarness(t, vtest.WithTiming(func(*vdom.VNode) dom.Timing {
		return dom.Timing{Duration: "1s"}
	}))
	done := false
	root := h.Root(transition.RootProps{
		Show: transition.Bool(false),
		ChildProps: transition.ChildProps{
			Enter:      "fade",
			AfterEnter: func() { done = true },
		},
	})
	h.Mount(root, nil)

	h.SetShow(root, true)
	h.Frame()
	h.Advance(999 * time.Millisecond)
	require.False(t, done)

	h.Advance(time.Millisecond)
	assert.True(t, done)
}
