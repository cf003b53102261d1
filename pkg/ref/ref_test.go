package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefMethods(t *testing.T) {
	r := New(0)
	assert.False(t, r.IsSet())
	assert.Equal(t, 0, r.Current())

	r.Set(42)
	assert.True(t, r.IsSet())
	assert.Equal(t, 42, r.Current())

	r.Clear()
	assert.False(t, r.IsSet())
	assert.Equal(t, 0, r.Current())
}

func TestMergeFansOut(t *testing.T) {
	a := New("")
	b := New("")
	var seen []string

	var nilRef *Ref[string]
	merged := Merge[string](a, nil, nilRef, func(v string) { seen = append(seen, v) }, b, 42)
	require.NotNil(t, merged)

	merged.Set("el")
	assert.Equal(t, "el", a.Current())
	assert.Equal(t, "el", b.Current())
	assert.Equal(t, []string{"el"}, seen)
}

func TestMergeAllNil(t *testing.T) {
	var nilRef *Ref[int]
	var nilFunc func(int)
	assert.Nil(t, Merge[int]())
	assert.Nil(t, Merge[int](nil, nilRef, nilFunc))
}
