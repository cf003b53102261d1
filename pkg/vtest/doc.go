// Package vtest provides testing helpers for transition trees.
//
// The Harness runs a tree on a deterministic manual loop over an in-memory
// document, so tests control exactly when frames paint and timers fire.
//
// # Quick Start
//
//	func TestPanelLeaves(t *testing.T) {
//	    h := vtest.NewHarness(t)
//	    root := h.Root(transition.RootProps{
//	        Show: transition.Bool(true),
//	        ChildProps: transition.ChildProps{
//	            Leave:     "transition duration-200",
//	            LeaveFrom: "opacity-100",
//	            LeaveTo:   "opacity-0",
//	            AfterLeave: h.Record("afterLeave"),
//	        },
//	    })
//	    h.Mount(root, func() *vdom.VNode { return vdom.P("hi") })
//
//	    h.SetShow(root, false)
//	    h.Settle()
//
//	    if root.Output() != nil {
//	        t.Error("expected the node to be unmounted")
//	    }
//	}
//
// # Timeline
//
// Class mutations and Record callbacks land on one ordered timeline, which
// makes ordering assertions across nested nodes direct:
//
//	h.Index("parent:beforeEnter") < h.Index("remove-class div#child opacity-0")
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	vtest.ExpectContains(t, root.Output(), "opacity-0")
//	vtest.ExpectClasses(t, node.Element(), "panel", "opacity-100")
package vtest
