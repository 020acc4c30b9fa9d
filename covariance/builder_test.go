package covariance

import (
	"testing"

	"github.com/expki/go-covariance/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiagonal(t *testing.T) {
	cov, err := New(Shape{3}, DiagonalInput{Variance: []float64{1, 2, 3}}, config.DefaultCovariance())
	require.NoError(t, err)

	assert.Equal(t, 3, cov.Size())
	assert.Equal(t, 3, cov.NonzeroCount())
	assert.Equal(t, []float64{1, 2, 3}, cov.Variances())

	value, err := cov.At(0, 1)
	require.NoError(t, err)
	assert.Zero(t, value)
	value, err = cov.At(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, value)
}

func TestNewDense(t *testing.T) {
	cov, err := New(Shape{3}, DenseInput{Matrix: [][]float64{
		{1.0, 0.5, 0.0},
		{0.5, 1.0, 0.2},
		{0.0, 0.2, 1.0},
	}}, config.DefaultCovariance())
	require.NoError(t, err)

	// zeros are not stored
	assert.Equal(t, 5, cov.NonzeroCount())
	value, err := cov.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, value)
	value, err = cov.At(0, 2)
	require.NoError(t, err)
	assert.Zero(t, value)
}

func TestNewDenseAsymmetric(t *testing.T) {
	_, err := New(Shape{2}, DenseInput{Matrix: [][]float64{
		{1.0, 0.5},
		{0.4, 1.0},
	}}, config.DefaultCovariance())
	assert.ErrorIs(t, err, ErrAsymmetric)

	// asymmetry within the tolerance is folded onto the upper triangle
	cfg := config.DefaultCovariance()
	cfg.SymmetryTolerance = 0.2
	cov, err := New(Shape{2}, DenseInput{Matrix: [][]float64{
		{1.0, 0.5},
		{0.4, 1.0},
	}}, cfg)
	require.NoError(t, err)
	value, err := cov.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, value)
}

func TestNewCorrelationIdentity(t *testing.T) {
	cov, err := New(Shape{3}, CorrelationInput{
		Rho: [][]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		Variance: []float64{1, 4, 9},
	}, config.DefaultCovariance())
	require.NoError(t, err)

	assert.Equal(t, 3, cov.NonzeroCount())
	assert.Equal(t, []float64{1, 4, 9}, cov.Variances())
}

func TestNewCorrelationScaling(t *testing.T) {
	cov, err := New(Shape{2}, CorrelationInput{
		Rho: [][]float64{
			{1.0, 0.5},
			{0.5, 1.0},
		},
		Variance: []float64{4, 9},
	}, config.DefaultCovariance())
	require.NoError(t, err)

	// cov(0,1) = rho * sqrt(v0*v1) = 0.5 * 6
	value, err := cov.At(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, value, 1e-12)
}

func TestNewCorrelationInvalid(t *testing.T) {
	cfg := config.DefaultCovariance()

	_, err := New(Shape{2}, CorrelationInput{
		Rho:      [][]float64{{1.0, 0.5}, {0.5, 0.9}},
		Variance: []float64{1, 1},
	}, cfg)
	assert.ErrorIs(t, err, ErrInvalidCorrelation)

	_, err = New(Shape{2}, CorrelationInput{
		Rho:      [][]float64{{1.0, 1.5}, {1.5, 1.0}},
		Variance: []float64{1, 1},
	}, cfg)
	assert.ErrorIs(t, err, ErrInvalidCorrelation)

	_, err = New(Shape{2}, CorrelationInput{
		Rho:      [][]float64{{1.0, 0.5}, {0.5, 1.0}},
		Variance: []float64{1, -1},
	}, cfg)
	assert.ErrorIs(t, err, ErrNegativeVariance)
}

func TestNewTripletsSumDuplicates(t *testing.T) {
	cov, err := New(Shape{2}, TripletInput{Triplets: []Triplet{
		{I: 0, J: 0, Value: 1},
		{I: 1, J: 1, Value: 1},
		{I: 0, J: 1, Value: 0.5},
		{I: 0, J: 1, Value: 0.5},
	}}, config.DefaultCovariance())
	require.NoError(t, err)

	value, err := cov.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, value)
}

func TestNewTripletsUnorderedPairs(t *testing.T) {
	// (1,0) and (0,1) name the same unordered pair and accumulate together
	cov, err := New(Shape{2}, TripletInput{Triplets: []Triplet{
		{I: 1, J: 0, Value: 0.25},
		{I: 0, J: 1, Value: 0.25},
	}}, config.DefaultCovariance())
	require.NoError(t, err)

	value, err := cov.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, value)
	assert.Equal(t, 1, cov.NonzeroCount())
}

func TestNewTripletsCancelToZero(t *testing.T) {
	cov, err := New(Shape{2}, TripletInput{Triplets: []Triplet{
		{I: 0, J: 1, Value: 0.5},
		{I: 0, J: 1, Value: -0.5},
	}}, config.DefaultCovariance())
	require.NoError(t, err)
	assert.Zero(t, cov.NonzeroCount())
}

func TestNewTripletsOutOfRange(t *testing.T) {
	_, err := New(Shape{2}, TripletInput{Triplets: []Triplet{
		{I: 0, J: 2, Value: 0.5},
	}}, config.DefaultCovariance())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = New(Shape{2}, TripletInput{Triplets: []Triplet{
		{I: -1, J: 0, Value: 0.5},
	}}, config.DefaultCovariance())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNewNegativeVariance(t *testing.T) {
	cfg := config.DefaultCovariance()

	_, err := New(Shape{2}, DiagonalInput{Variance: []float64{1, -1}}, cfg)
	assert.ErrorIs(t, err, ErrNegativeVariance)

	_, err = New(Shape{2}, DenseInput{Matrix: [][]float64{
		{-1.0, 0.0},
		{0.0, 1.0},
	}}, cfg)
	assert.ErrorIs(t, err, ErrNegativeVariance)

	_, err = New(Shape{2}, TripletInput{Triplets: []Triplet{
		{I: 0, J: 0, Value: -1},
	}}, cfg)
	assert.ErrorIs(t, err, ErrNegativeVariance)
}

func TestNewShapeMismatch(t *testing.T) {
	cfg := config.DefaultCovariance()

	_, err := New(Shape{3}, DiagonalInput{Variance: []float64{1, 2}}, cfg)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = New(Shape{3}, DenseInput{Matrix: [][]float64{
		{1, 0},
		{0, 1},
	}}, cfg)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = New(Shape{2}, DenseInput{Matrix: [][]float64{
		{1, 0},
		{0, 1, 0},
	}}, cfg)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = New(Shape{0}, DiagonalInput{Variance: nil}, cfg)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewToleranceDropsSmallEntries(t *testing.T) {
	cfg := config.DefaultCovariance()
	cfg.Tolerance = 0.1
	cov, err := New(Shape{2}, DenseInput{Matrix: [][]float64{
		{1.0, 0.05},
		{0.05, 1.0},
	}}, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, cov.NonzeroCount())
	value, err := cov.At(0, 1)
	require.NoError(t, err)
	assert.Zero(t, value)
}

func TestNewMultiDimensionalShape(t *testing.T) {
	// a (3,2) data array has 6 flattened samples
	cov, err := New(Shape{3, 2}, DiagonalInput{Variance: []float64{1, 2, 3, 4, 5, 6}}, config.DefaultCovariance())
	require.NoError(t, err)
	assert.Equal(t, 6, cov.Size())
	assert.Equal(t, Shape{3, 2}, cov.Shape())
}
