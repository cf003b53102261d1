// Package disposable provides a scoped bag of cleanup callbacks.
package disposable

import (
	"time"

	"github.com/vango-dev/vango-transition/pkg/dom"
	"github.com/vango-dev/vango-transition/pkg/loop"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// Bag collects cleanups and releases them together. A Bag belongs to one
// loop goroutine.
type Bag struct {
	s        loop.Scheduler
	cleanups []*entry
	disposed bool
}

type entry struct {
	fn   func()
	done bool
}

func (e *entry) run() {
	if e.done {
		return
	}
	e.done = true
	e.fn()
}

// New creates an empty bag.
func New(s loop.Scheduler) *Bag {
	return &Bag{s: s}
}

// Disposed reports whether Dispose has run.
func (b *Bag) Disposed() bool {
	return b.disposed
}

// Len returns the number of cleanups still registered.
func (b *Bag) Len() int {
	n := 0
	for _, e := range b.cleanups {
		if !e.done {
			n++
		}
	}
	return n
}

// Add registers fn. The returned func runs fn early and removes it from the
// bag; it is safe to call more than once. Adding to a disposed bag runs fn
// immediately.
func (b *Bag) Add(fn func()) (dispose func()) {
	if fn == nil {
		return func() {}
	}
	e := &entry{fn: fn}
	if b.disposed {
		e.run()
		return func() {}
	}
	b.cleanups = append(b.cleanups, e)
	return func() {
		if e.done {
			return
		}
		b.remove(e)
		e.run()
	}
}

func (b *Bag) remove(target *entry) {
	for i, e := range b.cleanups {
		if e == target {
			b.cleanups = append(b.cleanups[:i], b.cleanups[i+1:]...)
			return
		}
	}
}

// Dispose runs every registered cleanup in registration order, exactly
// once. Later calls are no-ops.
func (b *Bag) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	cleanups := b.cleanups
	b.cleanups = nil
	for _, e := range cleanups {
		e.run()
	}
}

// Group creates a nested bag, hands it to fn and returns a func that
// disposes only the group. Disposing b also disposes the group.
func (b *Bag) Group(fn func(*Bag)) (dispose func()) {
	group := New(b.s)
	if fn != nil {
		fn(group)
	}
	return b.Add(group.Dispose)
}

// SetTimeout runs fn after d unless the bag is disposed first.
func (b *Bag) SetTimeout(d time.Duration, fn func()) (dispose func()) {
	var release func()
	cancel := b.s.SetTimer(d, func() {
		release()
		fn()
	})
	release = b.Add(cancel)
	return release
}

// RequestFrame runs fn on the next paint frame unless disposed first.
func (b *Bag) RequestFrame(fn func()) (dispose func()) {
	var release func()
	cancel := b.s.AfterFrame(func() {
		release()
		fn()
	})
	release = b.Add(cancel)
	return release
}

// NextFrame runs fn once the browser has painted the current state. It is
// the boundary between applying "from" classes and "to" classes.
func (b *Bag) NextFrame(fn func()) (dispose func()) {
	return b.RequestFrame(fn)
}

// Microtask runs fn after the current task unless disposed first.
func (b *Bag) Microtask(fn func()) (dispose func()) {
	cancelled := false
	release := b.Add(func() { cancelled = true })
	b.s.Microtask(func() {
		if cancelled {
			return
		}
		release()
		fn()
	})
	return release
}

// AddEventListener attaches fn to node until the bag is disposed.
func (b *Bag) AddEventListener(host dom.Host, node *vdom.VNode, event string, fn func(dom.Event)) (dispose func()) {
	if host == nil || node == nil {
		return func() {}
	}
	return b.Add(host.Listen(node, event, fn))
}
