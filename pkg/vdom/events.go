package vdom

// Transition event names as dispatched by the browser.
const (
	EventTransitionRun    = "transitionrun"
	EventTransitionStart  = "transitionstart"
	EventTransitionEnd    = "transitionend"
	EventTransitionCancel = "transitioncancel"
)

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// On handles an arbitrary event.
func On(name string, handler any) EventHandler { return event(name, handler) }

// OnClick handles click events.
func OnClick(handler any) EventHandler { return event("click", handler) }

// OnTransitionRun handles transitionrun events.
func OnTransitionRun(handler any) EventHandler { return event(EventTransitionRun, handler) }

// OnTransitionStart handles transitionstart events.
func OnTransitionStart(handler any) EventHandler { return event(EventTransitionStart, handler) }

// OnTransitionEnd handles transitionend events.
func OnTransitionEnd(handler any) EventHandler { return event(EventTransitionEnd, handler) }

// OnTransitionCancel handles transitioncancel events.
func OnTransitionCancel(handler any) EventHandler { return event(EventTransitionCancel, handler) }
