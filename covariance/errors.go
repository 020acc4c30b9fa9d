package covariance

import "errors"

// Sentinel errors returned by builders and accessors. Callers match them with
// errors.Is; call sites wrap them with the offending index or dimension.
var (
	// ErrShapeMismatch is returned when the data-array shape does not agree with
	// the matrix dimension or vector length of the input.
	ErrShapeMismatch = errors.New("covariance: shape mismatch")

	// ErrAsymmetric is returned when a dense input violates symmetry beyond the
	// configured tolerance.
	ErrAsymmetric = errors.New("covariance: matrix is not symmetric within tolerance")

	// ErrInvalidCorrelation is returned when a correlation matrix has an
	// off-diagonal magnitude above one, a diagonal away from one, or when a
	// correlation coefficient is requested for a zero-variance sample.
	ErrInvalidCorrelation = errors.New("covariance: invalid correlation")

	// ErrNegativeVariance is returned when any diagonal (variance) entry is negative.
	ErrNegativeVariance = errors.New("covariance: negative variance")

	// ErrIndexOutOfRange is returned for a triplet index outside [0, N).
	ErrIndexOutOfRange = errors.New("covariance: index out of range")

	// ErrOutOfBounds is returned for an N-dimensional coordinate outside the shape,
	// or a flattened index outside [0, N).
	ErrOutOfBounds = errors.New("covariance: coordinate out of bounds")

	// ErrTooLargeForDense is returned when dense materialization would exceed the
	// configured element limit.
	ErrTooLargeForDense = errors.New("covariance: matrix too large for dense materialization")
)
