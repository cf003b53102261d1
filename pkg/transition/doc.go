// Package transition runs enter and leave CSS-class transitions on nested
// component trees.
//
// A Root owns the show input and renders one element. Nodes created with
// NewChild nest below it, each with its own class groups:
//
//	rt := transition.NewRuntime(loop, host)
//	root, _ := transition.NewRoot(rt, transition.RootProps{
//	    Show: transition.Bool(false),
//	    ChildProps: transition.ChildProps{
//	        Enter:     "transition-opacity duration-300",
//	        EnterFrom: "opacity-0",
//	        EnterTo:   "opacity-100",
//	    },
//	})
//	panel, _ := transition.NewChild(root, transition.ChildProps{Leave: "duration-200"})
//	root.Mount(func() *vdom.VNode {
//	    return panel.Render(vdom.P("hello"))
//	})
//	root.SetShow(true)
//
// Each transition resets the element's class groups, applies base+from,
// waits one paint frame, swaps from for to and then waits for the element's
// transitionend (or a timer of its computed duration plus delay).
//
// Nested transitions are ordered by a Coordinator per level. A child's
// before-enter callback runs only after its ancestors have started
// entering; a parent's after-leave runs only after every child has finished
// leaving. Once the last visible child of a node is gone the node hides:
// with the Unmount strategy it disappears from the output, with Hidden it
// stays with the hidden attribute and display:none.
//
// Everything in this package runs on the goroutine of the Runtime's
// scheduler and takes no locks.
package transition
