package gnctypes

import "errors"

// Sentinel errors returned by mutators that validate caller input at the
// boundary. The control loop itself never returns an error: a rejected
// mutation leaves prior state untouched.
var (
	// ErrInvalidInput flags a non-finite field, non-positive mass, or a
	// non-positive box dimension.
	ErrInvalidInput = errors.New("gnc: invalid input")

	// ErrDegenerateGeometry flags a thruster count different from 24 or
	// an empty thruster group.
	ErrDegenerateGeometry = errors.New("gnc: degenerate thruster geometry")

	// ErrInsufficientSamples is reported by the auto-tuner when fewer
	// than three error samples were collected during excitation; it
	// never aborts tuning, only the quality of the derived gains.
	ErrInsufficientSamples = errors.New("gnc: insufficient calibration samples")
)
