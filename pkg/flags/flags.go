// Package flags provides a small bitmask container guarded by the liveness
// of its owner.
package flags

import "strings"

// Set stores a bitmask. Mutations are ignored once the owner reports it is
// no longer alive.
type Set struct {
	bits     uint32
	alive    func() bool
	onChange func(prev, next uint32)
}

// Option configures a Set.
type Option func(*Set)

// WithOnChange registers a callback fired after the stored value changes.
func WithOnChange(fn func(prev, next uint32)) Option {
	return func(s *Set) { s.onChange = fn }
}

// New creates a set with an initial value. A nil alive func means the set
// is always mutable.
func New(initial uint32, alive func() bool, opts ...Option) *Set {
	s := &Set{bits: initial, alive: alive}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bits returns the stored value.
func (s *Set) Bits() uint32 {
	return s.bits
}

// Has reports whether every bit of flag is set.
func (s *Set) Has(flag uint32) bool {
	return s.bits&flag == flag
}

// Add sets the bits of flag.
func (s *Set) Add(flag uint32) {
	s.store(s.bits | flag)
}

// Remove clears the bits of flag.
func (s *Set) Remove(flag uint32) {
	s.store(s.bits &^ flag)
}

// Toggle flips the bits of flag.
func (s *Set) Toggle(flag uint32) {
	s.store(s.bits ^ flag)
}

// Set replaces the stored value.
func (s *Set) Set(value uint32) {
	s.store(value)
}

func (s *Set) store(value uint32) {
	if s.alive != nil && !s.alive() {
		return
	}
	if value == s.bits {
		return
	}
	old := s.bits
	s.bits = value
	if s.onChange != nil {
		s.onChange(old, value)
	}
}

// State is the open/closed state a transition exposes to nested consumers.
type State uint32

const (
	Open State = 1 << iota
	Closed
	Closing
	Opening
)

var stateNames = []struct {
	s    State
	name string
}{
	{Open, "open"},
	{Closed, "closed"},
	{Closing, "closing"},
	{Opening, "opening"},
}

// Has reports whether every bit of flag is set.
func (s State) Has(flag State) bool {
	return s&flag == flag
}

// String returns the space-joined names of the set bits.
func (s State) String() string {
	var names []string
	for _, n := range stateNames {
		if s&n.s != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, " ")
}
