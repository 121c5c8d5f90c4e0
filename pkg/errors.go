package pkg

import (
	"fmt"

	"github.com/go-errors/errors"
)

// ErrInterrupted is returned by Show when the run was interrupted after the
// panel was opened. The panel has been put to sleep.
var ErrInterrupted = errors.Errorf("interrupted")

// ResourceError reports a required local resource, such as a font file, that
// could not be loaded.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("cannot load %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// IOError reports a failure talking to the panel or reading an input file.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func resourceErr(resource string, err error) error {
	return errors.Wrap(&ResourceError{Resource: resource, Err: err}, 1)
}

func ioErr(op string, err error) error {
	return errors.Wrap(&IOError{Op: op, Err: err}, 1)
}
