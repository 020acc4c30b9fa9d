package covariance

import (
	"fmt"

	_ "github.com/expki/go-covariance/env"
)

// Shape is the logical shape of the data array a covariance matrix describes.
// All index math is row-major (C order), matching how N-dimensional data cubes
// are flattened on disk.
type Shape []int

// Valid reports whether every dimension is positive.
func (s Shape) Valid() bool {
	if len(s) == 0 {
		return false
	}
	for _, dim := range s {
		if dim <= 0 {
			return false
		}
	}
	return true
}

// Size returns the number of samples, the product of all dimensions.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s {
		size *= dim
	}
	return size
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Equal reports whether both shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for d, dim := range s {
		if other[d] != dim {
			return false
		}
	}
	return true
}

// RavelIndex flattens an N-dimensional coordinate to a linear sample index.
func RavelIndex(shape Shape, coord []int) (int, error) {
	if len(coord) != len(shape) {
		return 0, fmt.Errorf("coordinate has %d dimensions, shape has %d: %w", len(coord), len(shape), ErrOutOfBounds)
	}
	index := 0
	for d, c := range coord {
		if c < 0 || c >= shape[d] {
			return 0, fmt.Errorf("coordinate %d of dimension %d outside [0,%d): %w", c, d, shape[d], ErrOutOfBounds)
		}
		index = index*shape[d] + c
	}
	return index, nil
}

// UnravelIndex is the inverse of RavelIndex.
func UnravelIndex(shape Shape, index int) ([]int, error) {
	if index < 0 || index >= shape.Size() {
		return nil, fmt.Errorf("index %d outside [0,%d): %w", index, shape.Size(), ErrOutOfBounds)
	}
	coord := make([]int, len(shape))
	for d := len(shape) - 1; d >= 0; d-- {
		coord[d] = index % shape[d]
		index /= shape[d]
	}
	return coord, nil
}
