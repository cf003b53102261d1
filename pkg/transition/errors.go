package transition

import (
	stderrors "errors"

	"github.com/vango-dev/vango-transition/internal/errors"
)

var (
	// ErrMissingParent is returned by NewChild without a parent.
	ErrMissingParent = stderrors.New("transition: child without parent")

	// ErrMissingShow is returned by NewRoot without Show or an OpenClosed source.
	ErrMissingShow = stderrors.New("transition: root without show")

	// ErrMissingElement is returned when a visible node was never rendered.
	ErrMissingElement = stderrors.New("transition: visible node has no element")

	// ErrAlreadyMounted is returned by a second Root.Mount.
	ErrAlreadyMounted = stderrors.New("transition: root already mounted")

	// ErrClosed is returned by operations on a closed root.
	ErrClosed = stderrors.New("transition: root closed")
)

func usageError(code, subject string, sentinel error) error {
	return errors.New(code).WithSubject(subject).Wrap(sentinel)
}
