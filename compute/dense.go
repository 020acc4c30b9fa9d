package compute

import (
	_ "github.com/expki/go-covariance/env"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gorgonia.org/tensor"
)

// Matrix is a dense square float64 matrix backed by a gorgonia tensor.
type Matrix struct{ Dense *tensor.Dense }

// NewSquare wraps a row-major n*n backing slice. The backing is owned by the
// returned matrix.
func NewSquare(n int, backing []float64) Matrix {
	if n <= 0 || len(backing) != n*n {
		panic("backing does not match square shape")
	}
	return Matrix{
		Dense: tensor.New(tensor.WithBacking(backing), tensor.WithShape(n, n)),
	}
}

// Size returns n for an n x n matrix.
func (m Matrix) Size() int {
	if m.Dense == nil {
		return 0
	}
	return m.Dense.Shape()[0]
}

// Float64s returns the row-major backing slice.
func (m Matrix) Float64s() []float64 {
	return m.Dense.Data().([]float64)
}

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) float64 {
	return m.Float64s()[i*m.Size()+j]
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	return Matrix{Dense: m.Dense.Clone().(*tensor.Dense)}
}

// TripleProduct computes T * S * Tᵀ for a rows x cols transfer matrix T and a
// cols x cols matrix S, both row-major, returning a rows x rows result.
func TripleProduct(transfer []float64, rows, cols int, sigma []float64) []float64 {
	impl := blas64.Implementation()

	// tmp = T * S (rows x cols)
	tmp := make([]float64, rows*cols)
	impl.Dgemm(
		blas.NoTrans, blas.NoTrans,
		rows, cols, cols,
		1.0, transfer, cols,
		sigma, cols,
		0.0, tmp, cols,
	)

	// out = tmp * Tᵀ (rows x rows)
	out := make([]float64, rows*rows)
	impl.Dgemm(
		blas.NoTrans, blas.Trans,
		rows, rows, cols,
		1.0, tmp, cols,
		transfer, cols,
		0.0, out, rows,
	)
	return out
}

// Symmetrize folds a row-major n*n matrix onto (A + Aᵀ)/2 in place.
func Symmetrize(flat []float64, n int) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			mean := (flat[i*n+j] + flat[j*n+i]) / 2
			flat[i*n+j] = mean
			flat[j*n+i] = mean
		}
	}
}
