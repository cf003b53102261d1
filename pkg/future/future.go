// Package future provides single-shot completion handles scheduled on a
// loop.
//
// A Future starts pending and is resolved exactly once. Continuations
// registered with Then always run as microtasks, never synchronously
// inside Resolve, so resolving a future while holding half-updated state is
// safe. Futures are not goroutine-safe; they belong to the loop goroutine.
package future

// Queue is the part of a scheduler futures need.
type Queue interface {
	Microtask(fn func())
}

// Resolve completes a future. Calls after the first are no-ops.
type Resolve func()

// Future is a single-shot completion handle.
type Future struct {
	q       Queue
	done    bool
	waiters []func()
}

// New returns a pending future and its resolver.
func New(q Queue) (*Future, Resolve) {
	f := &Future{q: q}
	return f, f.resolve
}

// Resolved returns an already completed future.
func Resolved(q Queue) *Future {
	return &Future{q: q, done: true}
}

// Done reports whether the future has resolved.
func (f *Future) Done() bool {
	return f.done
}

func (f *Future) resolve() {
	if f.done {
		return
	}
	f.done = true
	waiters := f.waiters
	f.waiters = nil
	for _, w := range waiters {
		f.q.Microtask(w)
	}
}

// subscribe runs fn in a microtask once f resolves.
func (f *Future) subscribe(fn func()) {
	if f.done {
		f.q.Microtask(fn)
		return
	}
	f.waiters = append(f.waiters, fn)
}

// Then returns a future that resolves after fn has run following f.
func (f *Future) Then(fn func()) *Future {
	next, resolve := New(f.q)
	f.subscribe(func() {
		if fn != nil {
			fn()
		}
		resolve()
	})
	return next
}

// ThenWait runs fn after f and resolves when the future fn returns
// resolves. A nil result counts as resolved.
func (f *Future) ThenWait(fn func() *Future) *Future {
	next, resolve := New(f.q)
	f.subscribe(func() {
		var inner *Future
		if fn != nil {
			inner = fn()
		}
		if inner == nil {
			resolve()
			return
		}
		inner.subscribe(resolve)
	})
	return next
}

// All returns a future that resolves once every input has resolved. Nil
// inputs are ignored; with no pending inputs the result still resolves on
// the next microtask.
func All(q Queue, fs ...*Future) *Future {
	all, resolve := New(q)
	remaining := 0
	for _, f := range fs {
		if f != nil {
			remaining++
		}
	}
	if remaining == 0 {
		q.Microtask(resolve)
		return all
	}
	for _, f := range fs {
		if f == nil {
			continue
		}
		f.subscribe(func() {
			remaining--
			if remaining == 0 {
				resolve()
			}
		})
	}
	return all
}
