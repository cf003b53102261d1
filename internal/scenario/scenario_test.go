package scenario

import (
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-transition/internal/errors"
	"github.com/vango-dev/vango-transition/pkg/transition"
)

func load(t *testing.T, name string) *Scenario {
	t.Helper()
	sc, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return sc
}

func texts(res *Result) []string {
	out := make([]string, len(res.Timeline))
	for i, e := range res.Timeline {
		out[i] = e.Text
	}
	return out
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestRunNestedLeave(t *testing.T) {
	res, err := Run(load(t, "nested-leave.yaml"))
	require.NoError(t, err)

	lines := texts(res)
	assert.Equal(t, 0, indexOf(lines, "dialog:beforeLeave"))
	assert.Less(t, indexOf(lines, "panel:afterLeave"), indexOf(lines, "dialog:afterLeave"))
	assert.Empty(t, res.HTML, "the dialog unmounts")
	assert.Equal(t, 316*time.Millisecond, res.Elapsed)

	require.Len(t, res.Events, 2)
	for _, e := range res.Events {
		assert.Equal(t, transition.Leave, e.Direction)
		assert.False(t, e.Cancelled)
	}
}

func TestRunHiddenStrategy(t *testing.T) {
	res, err := Run(load(t, "hidden.yaml"))
	require.NoError(t, err)

	assert.Contains(t, res.HTML, `id="menu"`)
	assert.Contains(t, res.HTML, "hidden")
	assert.Contains(t, res.HTML, "display: none")
	assert.Contains(t, res.HTML, "items")
	assert.Equal(t, "menu:afterLeave", res.Timeline[len(res.Timeline)-1].Text)
}

func TestRunFiresEvents(t *testing.T) {
	res, err := Run(load(t, "events.yaml"))
	require.NoError(t, err)

	lines := texts(res)
	afterEnter := indexOf(lines, "toast:afterEnter")
	require.GreaterOrEqual(t, afterEnter, 0)
	assert.Equal(t, 5010*time.Millisecond, res.Timeline[afterEnter].At, "transitionrun dropped the timer, so only transitionend completes")
	assert.Contains(t, res.HTML, `class="shown"`)
}

func TestRunReportsUnfinishedRunsCancelled(t *testing.T) {
	sc, err := Parse([]byte(`
name: unfinished
show: true
root:
  name: panel
  leave: transition duration-500
steps:
  - show: false
  - frames: 1
`))
	require.NoError(t, err)

	res, err := Run(sc)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.True(t, res.Events[0].Cancelled)
	assert.Contains(t, res.HTML, `id="panel"`)
}

func TestResultWrite(t *testing.T) {
	res, err := Run(load(t, "nested-leave.yaml"))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, res.Write(&b))
	out := b.String()
	assert.True(t, strings.HasPrefix(out, "scenario nested-leave (316ms virtual)\n"))
	assert.Contains(t, out, "dialog:afterLeave")
	assert.Contains(t, out, "panel leave done after 316ms")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"syntax", "root: [", "Failed to parse scenario"},
		{"unnamed node", "root: {}", "every node needs a name"},
		{"duplicate", "root: {name: a, children: [{name: a}]}", `node name "a" is used twice`},
		{"strategy", "root: {name: a, strategy: fade}", `unknown strategy "fade"`},
		{"frame", "frameInterval: soon\nroot: {name: a}", `frameInterval "soon"`},
		{"empty step", "root: {name: a}\nsteps: [{}]", "step 1 must set exactly one action, got 0"},
		{"two actions", "root: {name: a}\nsteps: [{show: true, settle: true}]", "got 2"},
		{"fire unknown", "root: {name: a}\nsteps: [{fire: {node: b, event: transitionend}}]", `unknown node "b"`},
		{"remove root", "root: {name: a}\nsteps: [{remove: a}]", `cannot remove "a"`},
		{"advance", "root: {name: a}\nsteps: [{advance: later}]", `advance "later"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			var ve *errors.VangoError
			require.True(t, stderrors.As(err, &ve), "got %v", err)
			assert.Equal(t, "E150", ve.Code)
			assert.Contains(t, ve.Detail, tt.want)
		})
	}
}

func TestRemoveStep(t *testing.T) {
	sc, err := Parse([]byte(`
name: remove
show: true
root:
  name: list
  children:
    - name: a
      text: first
    - name: b
      text: second
steps:
  - remove: a
`))
	require.NoError(t, err)

	res, err := Run(sc)
	require.NoError(t, err)
	assert.NotContains(t, res.HTML, "first")
	assert.Contains(t, res.HTML, "second")
}
