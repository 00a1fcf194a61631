package geom

import "errors"

var (
	// ErrSingular indicates a rotation block that cannot be inverted.
	ErrSingular = errors.New("geom: rotation block is singular")

	// ErrNonFinite indicates a NaN or Inf entry in a transform.
	ErrNonFinite = errors.New("geom: transform has NaN or Inf entries")
)
