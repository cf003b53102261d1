package dom

import "github.com/vango-dev/vango-transition/pkg/vdom"

// Timing is the resolved transition timing of an element, in CSS syntax.
// Each field may hold a comma-separated list ("0.3s, 75ms").
type Timing struct {
	Duration string
	Delay    string
}

// Event is a DOM event delivered to a listener.
type Event struct {
	Type          string
	Target        *vdom.VNode // Element the event originated on
	CurrentTarget *vdom.VNode // Element the listener is attached to
}

// Host is the DOM surface the transition driver mutates. Every method is
// a no-op for a nil node.
type Host interface {
	// AddClass adds class tokens to the element.
	AddClass(node *vdom.VNode, names ...string)

	// RemoveClass removes class tokens from the element.
	RemoveClass(node *vdom.VNode, names ...string)

	// Reveal clears hidden presentation state: the hidden attribute and
	// an inline display:none.
	Reveal(node *vdom.VNode)

	// ComputedTiming resolves the element's transition duration and delay.
	ComputedTiming(node *vdom.VNode) Timing

	// Listen attaches an event listener. The returned func detaches it.
	Listen(node *vdom.VNode, event string, fn func(Event)) (remove func())
}

func noop() {}
