package emit

import (
	"errors"
	"fmt"

	"github.com/san-kum/breathseed/internal/sampler"
)

var (
	// ErrConfig indicates geometry or timing rejected before any output.
	ErrConfig = errors.New("emit: configuration fault")

	// ErrIO indicates the output stream could not be written.
	ErrIO = errors.New("emit: output fault")

	// ErrSampling indicates rejection sampling hit its retry bound.
	ErrSampling = errors.New("emit: sampling fault")
)

// RunError carries the step and region where a run aborted.
type RunError struct {
	Step    int
	Region  sampler.Region
	Kind    error
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%v at t=%d ms (%s): %v", e.Kind, e.Step, e.Region, e.Wrapped)
}

func (e *RunError) Unwrap() []error {
	return []error{e.Kind, e.Wrapped}
}
