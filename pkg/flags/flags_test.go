package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	a uint32 = 1 << iota
	b
	c
)

func TestSetOperations(t *testing.T) {
	s := New(0, nil)

	s.Add(a)
	s.Add(a)
	assert.True(t, s.Has(a))
	assert.Equal(t, a, s.Bits())

	s.Add(b | c)
	assert.True(t, s.Has(a|b|c))

	s.Remove(b)
	s.Remove(b)
	assert.False(t, s.Has(b))
	assert.False(t, s.Has(a|b))
	assert.True(t, s.Has(a|c))

	s.Toggle(a)
	assert.False(t, s.Has(a))
	s.Toggle(a)
	assert.True(t, s.Has(a))

	s.Set(0)
	assert.Zero(t, s.Bits())
	assert.True(t, s.Has(0))
}

func TestSetIgnoresMutationsWhenDead(t *testing.T) {
	alive := true
	s := New(a, func() bool { return alive })

	alive = false
	s.Add(b)
	s.Remove(a)
	s.Toggle(c)

	assert.Equal(t, a, s.Bits())
	assert.True(t, s.Has(a))
}

func TestOnChangeFiresOnlyOnChange(t *testing.T) {
	var changes [][2]uint32
	s := New(0, nil, WithOnChange(func(prev, next uint32) {
		changes = append(changes, [2]uint32{prev, next})
	}))

	s.Add(a)
	s.Add(a)
	s.Remove(b)
	s.Remove(a)

	assert.Equal(t, [][2]uint32{{0, a}, {a, 0}}, changes)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{0, ""},
		{Open, "open"},
		{Closed | Closing, "closed closing"},
		{Open | Opening, "open opening"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
	assert.True(t, (Open | Opening).Has(Opening))
	assert.False(t, Open.Has(Closed))
}
