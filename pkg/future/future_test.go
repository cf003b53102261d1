package future_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-transition/pkg/future"
	"github.com/vango-dev/vango-transition/pkg/loop"
)

func TestResolveIsAsynchronous(t *testing.T) {
	m := loop.NewManual()
	f, resolve := future.New(m)
	ran := false
	f.Then(func() { ran = true })

	resolve()
	assert.True(t, f.Done())
	assert.False(t, ran, "continuation must not run inside Resolve")

	m.Flush()
	assert.True(t, ran)
}

func TestResolveIdempotent(t *testing.T) {
	m := loop.NewManual()
	f, resolve := future.New(m)
	count := 0
	f.Then(func() { count++ })

	resolve()
	resolve()
	m.Flush()
	resolve()
	m.Flush()

	assert.Equal(t, 1, count)
}

func TestThenOnResolved(t *testing.T) {
	m := loop.NewManual()
	ran := false
	next := future.Resolved(m).Then(func() { ran = true })

	assert.False(t, next.Done())
	m.Flush()
	assert.True(t, ran)
	assert.True(t, next.Done())
}

func TestThenWaitFlattens(t *testing.T) {
	m := loop.NewManual()
	inner, resolveInner := future.New(m)

	outer := future.Resolved(m).ThenWait(func() *future.Future { return inner })
	m.Flush()
	assert.False(t, outer.Done())

	resolveInner()
	m.Flush()
	assert.True(t, outer.Done())
}

func TestThenWaitNil(t *testing.T) {
	m := loop.NewManual()
	outer := future.Resolved(m).ThenWait(func() *future.Future { return nil })
	m.Flush()
	assert.True(t, outer.Done())
}

func TestAll(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		resolve []int
		want    bool
	}{
		{name: "empty", count: 0, want: true},
		{name: "none resolved", count: 2, resolve: nil, want: false},
		{name: "partial", count: 3, resolve: []int{0, 2}, want: false},
		{name: "all resolved", count: 3, resolve: []int{2, 0, 1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loop.NewManual()
			var fs []*future.Future
			var rs []future.Resolve
			for i := 0; i < tt.count; i++ {
				f, r := future.New(m)
				fs = append(fs, f)
				rs = append(rs, r)
			}
			all := future.All(m, fs...)
			for _, i := range tt.resolve {
				rs[i]()
			}
			m.Flush()
			assert.Equal(t, tt.want, all.Done())
		})
	}
}

func TestAllIgnoresNil(t *testing.T) {
	m := loop.NewManual()
	f, resolve := future.New(m)
	all := future.All(m, nil, f, nil)

	m.Flush()
	require.False(t, all.Done())

	resolve()
	m.Flush()
	assert.True(t, all.Done())
}

func TestContinuationOrder(t *testing.T) {
	m := loop.NewManual()
	f, resolve := future.New(m)
	var order []int
	f.Then(func() { order = append(order, 1) })
	f.Then(func() { order = append(order, 2) })
	f.Then(func() { order = append(order, 3) })

	resolve()
	m.Flush()
	assert.Equal(t, []int{1, 2, 3}, order)
}
