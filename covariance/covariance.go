package covariance

import (
	"fmt"
	"math"

	"github.com/expki/go-covariance/compute"
	"github.com/expki/go-covariance/config"
	_ "github.com/expki/go-covariance/env"
)

// Covariance is the public handle for the sparse covariance matrix of an
// N-dimensional data array. It owns its store exclusively and is immutable
// apart from the provenance description.
type Covariance struct {
	store *Store
	cfg   config.Covariance

	// Description is free-text provenance carried through persistence.
	Description string
}

// Shape returns a copy of the associated data-array shape.
func (c *Covariance) Shape() Shape {
	return c.store.Shape()
}

// Size returns the number of samples N.
func (c *Covariance) Size() int {
	return c.store.Size()
}

// At returns the covariance between flattened samples i and j.
func (c *Covariance) At(i, j int) (float64, error) {
	return c.store.At(i, j)
}

// Get returns the covariance between the samples at two N-dimensional
// coordinates of the data array.
func (c *Covariance) Get(coordA, coordB []int) (float64, error) {
	return c.store.AtCoord(coordA, coordB)
}

// Variances returns the diagonal of the covariance matrix, length N.
func (c *Covariance) Variances() []float64 {
	return c.store.Variances()
}

// NonzeroCount returns the number of stored entries.
func (c *Covariance) NonzeroCount() int {
	return c.store.NonzeroCount()
}

// Triplets returns every stored entry (i <= j) sorted by (i, j).
func (c *Covariance) Triplets() []Triplet {
	return c.store.Triplets()
}

// Config returns the numeric policy the matrix was built with.
func (c *Covariance) Config() config.Covariance {
	return c.cfg
}

// ToDense materializes the full symmetric matrix. Materialization is O(N^2)
// memory, so it is refused above the configured element limit.
func (c *Covariance) ToDense() (compute.Matrix, error) {
	n := c.store.Size()
	if n*n > c.cfg.DenseElementLimit {
		return compute.Matrix{}, fmt.Errorf("%d x %d exceeds the %d element limit: %w", n, n, c.cfg.DenseElementLimit, ErrTooLargeForDense)
	}
	backing := make([]float64, n*n)
	for key, value := range c.store.entries {
		backing[key.i*n+key.j] = value
		backing[key.j*n+key.i] = value
	}
	return compute.NewSquare(n, backing), nil
}

// Copy returns a deep copy sharing no state with the original.
func (c *Covariance) Copy() *Covariance {
	return &Covariance{
		store:       c.store.clone(),
		cfg:         c.cfg,
		Description: c.Description,
	}
}

// CorrelationTriplets decomposes the matrix into correlation coefficients and
// a variance vector, the pairing instruments usually report. An off-diagonal
// entry between zero-variance samples has no defined coefficient.
func (c *Covariance) CorrelationTriplets() (triplets []Triplet, variances []float64, err error) {
	variances = c.store.Variances()
	stored := c.store.Triplets()
	triplets = make([]Triplet, 0, len(stored))
	for _, t := range stored {
		if t.I == t.J {
			triplets = append(triplets, Triplet{I: t.I, J: t.J, Value: 1})
			continue
		}
		vi, vj := variances[t.I], variances[t.J]
		if vi <= 0 || vj <= 0 {
			return nil, nil, fmt.Errorf("entry (%d,%d) has a zero-variance sample: %w", t.I, t.J, ErrInvalidCorrelation)
		}
		triplets = append(triplets, Triplet{I: t.I, J: t.J, Value: t.Value / math.Sqrt(vi*vj)})
	}
	return triplets, variances, nil
}

// ApplyNewVariance builds a new Covariance with the same correlation structure
// but the provided variance vector.
func (c *Covariance) ApplyNewVariance(variance []float64) (*Covariance, error) {
	n := c.store.Size()
	if len(variance) != n {
		return nil, fmt.Errorf("variance vector has length %d, expected %d: %w", len(variance), n, ErrShapeMismatch)
	}
	for i, value := range variance {
		if value < 0 {
			return nil, fmt.Errorf("variance of sample %d is %g: %w", i, value, ErrNegativeVariance)
		}
	}
	correlation, _, err := c.CorrelationTriplets()
	if err != nil {
		return nil, err
	}
	triplets := make([]Triplet, 0, len(correlation))
	for _, t := range correlation {
		if t.I == t.J {
			triplets = append(triplets, Triplet{I: t.I, J: t.J, Value: variance[t.I]})
			continue
		}
		triplets = append(triplets, Triplet{
			I: t.I, J: t.J,
			Value: t.Value * math.Sqrt(variance[t.I]*variance[t.J]),
		})
	}
	applied, err := New(c.store.Shape(), TripletInput{Triplets: triplets}, c.cfg)
	if err != nil {
		return nil, err
	}
	applied.Description = c.Description
	return applied, nil
}

// FromMatrixMultiplication builds the covariance of Y = T X from the transfer
// matrix T and the covariance of X. Sigma must be a DenseInput or a
// DiagonalInput describing the Nx samples of X; shape describes Y.
func FromMatrixMultiplication(shape Shape, transfer [][]float64, sigma Input, cfg config.Covariance) (*Covariance, error) {
	cfg = cfg.Normalized()
	if !shape.Valid() {
		return nil, fmt.Errorf("shape %v has a non-positive dimension: %w", shape, ErrShapeMismatch)
	}
	ny := shape.Size()
	if len(transfer) != ny {
		return nil, fmt.Errorf("transfer matrix has %d rows, shape implies %d samples: %w", len(transfer), ny, ErrShapeMismatch)
	}
	if len(transfer) == 0 || len(transfer[0]) == 0 {
		return nil, fmt.Errorf("transfer matrix is empty: %w", ErrShapeMismatch)
	}
	nx := len(transfer[0])
	flatT := make([]float64, 0, ny*nx)
	for i, row := range transfer {
		if len(row) != nx {
			return nil, fmt.Errorf("transfer matrix row %d has %d columns, expected %d: %w", i, len(row), nx, ErrShapeMismatch)
		}
		flatT = append(flatT, row...)
	}

	switch sigma.(type) {
	case DenseInput, DiagonalInput:
	default:
		return nil, fmt.Errorf("covariance: sigma must be a DenseInput or DiagonalInput, got %T", sigma)
	}
	inner, err := New(Shape{nx}, sigma, cfg)
	if err != nil {
		return nil, err
	}
	if max(ny*ny, ny*nx, nx*nx) > cfg.DenseElementLimit {
		return nil, fmt.Errorf("%d x %d transfer product exceeds the %d element limit: %w", ny, nx, cfg.DenseElementLimit, ErrTooLargeForDense)
	}
	dense, err := inner.ToDense()
	if err != nil {
		return nil, err
	}

	product := compute.TripleProduct(flatT, ny, nx, dense.Float64s())
	// Dgemm leaves float-level asymmetry; fold both halves before sparsifying.
	compute.Symmetrize(product, ny)
	entries, err := buildDenseFlat(ny, product, cfg)
	if err != nil {
		return nil, err
	}
	return &Covariance{store: newStore(shape, entries), cfg: cfg}, nil
}
