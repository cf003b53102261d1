// Package ref provides mutable reference cells and ref fan-out.
//
// The transition runtime hands the rendered element of every node to the
// refs it was given. A Ref also serves as the "latest value" cell that lets
// long-lived callbacks observe the props of the most recent render.
package ref

import "sync"

// Setter receives a value.
type Setter[T any] interface {
	Set(value T)
}

// Func adapts a plain callback to Setter.
type Func[T any] func(value T)

// Set implements Setter.
func (f Func[T]) Set(value T) { f(value) }

// Ref holds a mutable reference to a value.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	isSet bool
	mu    sync.RWMutex
}

// New creates a Ref with the given initial value. The ref reports IsSet
// false until the first Set.
func New[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set sets the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
	r.isSet = true
}

// IsSet returns true if the ref has been set.
func (r *Ref[T]) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isSet
}

// Clear resets the ref to its zero value.
func (r *Ref[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.value = zero
	r.isSet = false
}

// Merge fans a value out to every non-nil target. Targets may be Setter[T]
// values (including *Ref[T]) or func(T) callbacks; anything else is
// ignored. Merge returns nil when no usable target is given, so callers can
// skip ref wiring entirely.
func Merge[T any](targets ...any) Setter[T] {
	var out []Setter[T]
	for _, t := range targets {
		switch v := t.(type) {
		case nil:
		case *Ref[T]:
			if v != nil {
				out = append(out, v)
			}
		case func(T):
			if v != nil {
				out = append(out, Func[T](v))
			}
		case Func[T]:
			if v != nil {
				out = append(out, v)
			}
		case Setter[T]:
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return Func[T](func(value T) {
		for _, s := range out {
			s.Set(value)
		}
	})
}
