package transition

import "time"

// Event describes one transition run for observers.
type Event struct {
	// Seq identifies the run. Started and Finished share it.
	Seq       uint64
	Node      string
	Direction Direction
	At        time.Time

	// Set on Finished only.
	Elapsed   time.Duration
	Cancelled bool
}

// Observer receives transition lifecycle notifications. Calls happen on the
// loop goroutine; implementations must not block.
type Observer interface {
	TransitionStarted(Event)
	TransitionFinished(Event)
	CoordinatorIdle(owner string)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) TransitionStarted(Event)  {}
func (NopObserver) TransitionFinished(Event) {}
func (NopObserver) CoordinatorIdle(string)   {}

type multiObserver []Observer

// MultiObserver fans notifications out to every observer in order.
func MultiObserver(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o == nil {
			continue
		}
		if m, ok := o.(multiObserver); ok {
			out = append(out, m...)
			continue
		}
		out = append(out, o)
	}
	return out
}

func (m multiObserver) TransitionStarted(e Event) {
	for _, o := range m {
		o.TransitionStarted(e)
	}
}

func (m multiObserver) TransitionFinished(e Event) {
	for _, o := range m {
		o.TransitionFinished(e)
	}
}

func (m multiObserver) CoordinatorIdle(owner string) {
	for _, o := range m {
		o.CoordinatorIdle(owner)
	}
}
