package covariance

import (
	"fmt"
	"math"

	"github.com/expki/go-covariance/config"
	_ "github.com/expki/go-covariance/env"
)

// Input is the tagged set of accepted construction variants. Exactly one
// variant is supplied to New; dispatch happens once at construction.
type Input interface {
	isInput()
}

// DenseInput is a full N x N covariance matrix.
type DenseInput struct {
	Matrix [][]float64
}

// CorrelationInput is a correlation matrix (diagonal one, magnitudes at most
// one) plus a per-sample variance vector.
type CorrelationInput struct {
	Rho      [][]float64
	Variance []float64
}

// DiagonalInput is a variance vector with implicit zero off-diagonal covariance.
type DiagonalInput struct {
	Variance []float64
}

// TripletInput is an explicit sparse triplet list; duplicate pairs are summed.
type TripletInput struct {
	Triplets []Triplet
}

func (DenseInput) isInput()       {}
func (CorrelationInput) isInput() {}
func (DiagonalInput) isInput()    {}
func (TripletInput) isInput()     {}

// New validates the input variant against the data-array shape and builds an
// immutable Covariance. All validation is eager: on error no Covariance exists.
func New(shape Shape, input Input, cfg config.Covariance) (*Covariance, error) {
	cfg = cfg.Normalized()
	if !shape.Valid() {
		return nil, fmt.Errorf("shape %v has a non-positive dimension: %w", shape, ErrShapeMismatch)
	}
	n := shape.Size()

	var entries map[pair]float64
	var err error
	switch in := input.(type) {
	case DenseInput:
		entries, err = buildDense(n, in.Matrix, cfg)
	case CorrelationInput:
		entries, err = buildCorrelation(n, in.Rho, in.Variance, cfg)
	case DiagonalInput:
		entries, err = buildDiagonal(n, in.Variance, cfg)
	case TripletInput:
		entries, err = buildTriplets(n, in.Triplets, cfg)
	default:
		return nil, fmt.Errorf("covariance: unsupported input variant %T", input)
	}
	if err != nil {
		return nil, err
	}

	return &Covariance{
		store: newStore(shape, entries),
		cfg:   cfg,
	}, nil
}

func buildDense(n int, matrix [][]float64, cfg config.Covariance) (map[pair]float64, error) {
	if len(matrix) != n {
		return nil, fmt.Errorf("dense matrix has %d rows, shape implies %d samples: %w", len(matrix), n, ErrShapeMismatch)
	}
	flat := make([]float64, 0, n*n)
	for i, row := range matrix {
		if len(row) != n {
			return nil, fmt.Errorf("dense matrix row %d has %d columns, expected %d: %w", i, len(row), n, ErrShapeMismatch)
		}
		flat = append(flat, row...)
	}
	return buildDenseFlat(n, flat, cfg)
}

// buildDenseFlat sparsifies a row-major n*n matrix. The upper-triangle value is
// the one stored once symmetry has been checked.
func buildDenseFlat(n int, flat []float64, cfg config.Covariance) (map[pair]float64, error) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			delta := math.Abs(flat[i*n+j] - flat[j*n+i])
			if delta > cfg.SymmetryTolerance {
				return nil, fmt.Errorf("entry (%d,%d) differs from (%d,%d) by %g: %w", i, j, j, i, delta, ErrAsymmetric)
			}
		}
	}
	entries := make(map[pair]float64)
	for i := 0; i < n; i++ {
		if flat[i*n+i] < 0 {
			return nil, fmt.Errorf("variance of sample %d is %g: %w", i, flat[i*n+i], ErrNegativeVariance)
		}
		for j := i; j < n; j++ {
			if value := flat[i*n+j]; math.Abs(value) > cfg.Tolerance {
				entries[pair{i, j}] = value
			}
		}
	}
	return entries, nil
}

func buildCorrelation(n int, rho [][]float64, variance []float64, cfg config.Covariance) (map[pair]float64, error) {
	if len(variance) != n {
		return nil, fmt.Errorf("variance vector has length %d, shape implies %d samples: %w", len(variance), n, ErrShapeMismatch)
	}
	if len(rho) != n {
		return nil, fmt.Errorf("correlation matrix has %d rows, shape implies %d samples: %w", len(rho), n, ErrShapeMismatch)
	}
	for i, value := range variance {
		if value < 0 {
			return nil, fmt.Errorf("variance of sample %d is %g: %w", i, value, ErrNegativeVariance)
		}
	}
	for i, row := range rho {
		if len(row) != n {
			return nil, fmt.Errorf("correlation matrix row %d has %d columns, expected %d: %w", i, len(row), n, ErrShapeMismatch)
		}
		if math.Abs(row[i]-1) > cfg.SymmetryTolerance {
			return nil, fmt.Errorf("correlation diagonal at %d is %g, expected 1: %w", i, row[i], ErrInvalidCorrelation)
		}
		for j, value := range row {
			if i != j && math.Abs(value) > 1+cfg.SymmetryTolerance {
				return nil, fmt.Errorf("correlation at (%d,%d) has magnitude %g above 1: %w", i, j, math.Abs(value), ErrInvalidCorrelation)
			}
		}
	}
	entries := make(map[pair]float64)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			value := rho[i][j] * math.Sqrt(variance[i]*variance[j])
			if math.Abs(value) > cfg.Tolerance {
				entries[pair{i, j}] = value
			}
		}
	}
	return entries, nil
}

func buildDiagonal(n int, variance []float64, cfg config.Covariance) (map[pair]float64, error) {
	if len(variance) != n {
		return nil, fmt.Errorf("variance vector has length %d, shape implies %d samples: %w", len(variance), n, ErrShapeMismatch)
	}
	entries := make(map[pair]float64, n)
	for i, value := range variance {
		if value < 0 {
			return nil, fmt.Errorf("variance of sample %d is %g: %w", i, value, ErrNegativeVariance)
		}
		if math.Abs(value) > cfg.Tolerance {
			entries[pair{i, i}] = value
		}
	}
	return entries, nil
}

func buildTriplets(n int, triplets []Triplet, cfg config.Covariance) (map[pair]float64, error) {
	entries := make(map[pair]float64, len(triplets))
	for _, t := range triplets {
		if t.I < 0 || t.I >= n {
			return nil, fmt.Errorf("triplet row %d outside [0,%d): %w", t.I, n, ErrIndexOutOfRange)
		}
		if t.J < 0 || t.J >= n {
			return nil, fmt.Errorf("triplet column %d outside [0,%d): %w", t.J, n, ErrIndexOutOfRange)
		}
		key := pair{t.I, t.J}
		if key.i > key.j {
			key.i, key.j = key.j, key.i
		}
		// Standard sparse COO semantics: repeated pairs accumulate.
		entries[key] += t.Value
	}
	for key, value := range entries {
		if key.i == key.j && value < 0 {
			return nil, fmt.Errorf("variance of sample %d is %g: %w", key.i, value, ErrNegativeVariance)
		}
		if math.Abs(value) <= cfg.Tolerance {
			delete(entries, key)
		}
	}
	return entries, nil
}
