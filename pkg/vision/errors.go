package vision

import "errors"

var (
	// ErrInsufficientSignal is returned when too few line pixels were found
	// to support a fit.
	ErrInsufficientSignal = errors.New("vision: insufficient line pixels")

	// ErrDegenerateFit is returned when the pixel set cannot determine a
	// quadratic (too few distinct rows, singular or ill-conditioned system).
	ErrDegenerateFit = errors.New("vision: degenerate curve fit")

	// ErrInvalidFrame is returned for empty frames or unsupported layouts.
	ErrInvalidFrame = errors.New("vision: invalid frame")
)
