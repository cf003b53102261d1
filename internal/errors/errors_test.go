package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "missing parent",
			code:    "E101",
			wantMsg: "Transition child is missing a parent",
			wantCat: CategoryUsage,
		},
		{
			name:    "loop closed",
			code:    "E120",
			wantMsg: "Loop closed",
			wantCat: CategoryRuntime,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, tt.wantCat, err.Category)
			assert.Equal(t, tt.code, err.Code)
		})
	}
}

func TestVangoError_Error(t *testing.T) {
	err := New("E103").WithSubject("panel")
	assert.Equal(t, "E103: Visible transition node was never rendered (panel)", err.Error())

	plain := &VangoError{Message: "test error"}
	assert.Equal(t, "test error", plain.Error())
}

func TestWrapSupportsErrorsIs(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := New("E101").Wrap(sentinel)

	require.ErrorIs(t, err, sentinel)

	var ve *VangoError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "E101", ve.Code)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil, "E140"))

	original := New("E150")
	assert.Same(t, original, FromError(original, "E140"))

	wrapped := FromError(stderrors.New("boom"), "E140")
	assert.Equal(t, "E140", wrapped.Code)
	assert.EqualError(t, wrapped.Wrapped, "boom")
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E102").
		WithSubject("dialog").
		WithExample("transition.NewRoot(rt, transition.RootProps{Show: transition.Bool(true)})").
		Format()

	assert.Contains(t, out, "ERROR E102: Transition root is missing a show value")
	assert.Contains(t, out, "dialog")
	assert.Contains(t, out, "Hint: Set RootProps.Show")
	assert.Contains(t, out, "Example:")
	assert.Contains(t, out, "Learn more: https://vango.dev/docs/errors/E102")
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "E104: Passing props on a fragment [Transition]", New("E104").WithSubject("Transition").FormatCompact())
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Nil(t, wrapText("", 10))
}

func TestRegisteredCodesHaveTemplates(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		require.True(t, ok)
		assert.NotEmpty(t, tmpl.Message, code)
		assert.NotEmpty(t, tmpl.Category, code)
	}
}
