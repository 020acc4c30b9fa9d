package covariance

import (
	"fmt"
	"sort"

	_ "github.com/expki/go-covariance/env"
)

// Triplet is one stored covariance entry in coordinate format.
type Triplet struct {
	I     int
	J     int
	Value float64
}

// pair is an unordered index pair, normalized so i <= j.
type pair struct {
	i, j int
}

// Store holds the non-zero covariance entries of an N-dimensional data array.
// Only the upper triangle is kept; absent pairs are zero. A Store is immutable
// after construction, so concurrent reads need no locking.
type Store struct {
	shape   Shape
	size    int
	entries map[pair]float64
}

func newStore(shape Shape, entries map[pair]float64) *Store {
	return &Store{
		shape:   shape.Clone(),
		size:    shape.Size(),
		entries: entries,
	}
}

// Shape returns a copy of the data-array shape.
func (s *Store) Shape() Shape {
	return s.shape.Clone()
}

// Size returns the number of samples N; the full matrix is N x N.
func (s *Store) Size() int {
	return s.size
}

// At returns the covariance between samples i and j, zero when no entry is
// stored. Lookup is symmetric: At(i,j) == At(j,i).
func (s *Store) At(i, j int) (float64, error) {
	if i < 0 || i >= s.size {
		return 0, fmt.Errorf("row %d outside [0,%d): %w", i, s.size, ErrIndexOutOfRange)
	}
	if j < 0 || j >= s.size {
		return 0, fmt.Errorf("column %d outside [0,%d): %w", j, s.size, ErrIndexOutOfRange)
	}
	if i > j {
		i, j = j, i
	}
	return s.entries[pair{i, j}], nil
}

// AtCoord returns the covariance between the samples at two N-dimensional
// coordinates of the data array.
func (s *Store) AtCoord(coordA, coordB []int) (float64, error) {
	i, err := RavelIndex(s.shape, coordA)
	if err != nil {
		return 0, err
	}
	j, err := RavelIndex(s.shape, coordB)
	if err != nil {
		return 0, err
	}
	return s.At(i, j)
}

// Variances returns the diagonal of the covariance matrix, always length N.
func (s *Store) Variances() []float64 {
	variances := make([]float64, s.size)
	for i := range variances {
		variances[i] = s.entries[pair{i, i}]
	}
	return variances
}

// NonzeroCount returns the number of stored entries.
func (s *Store) NonzeroCount() int {
	return len(s.entries)
}

// Triplets returns every stored entry (i <= j) sorted by (i, j).
func (s *Store) Triplets() []Triplet {
	triplets := make([]Triplet, 0, len(s.entries))
	for key, value := range s.entries {
		triplets = append(triplets, Triplet{I: key.i, J: key.j, Value: value})
	}
	sort.Slice(triplets, func(a, b int) bool {
		if triplets[a].I != triplets[b].I {
			return triplets[a].I < triplets[b].I
		}
		return triplets[a].J < triplets[b].J
	})
	return triplets
}

func (s *Store) clone() *Store {
	entries := make(map[pair]float64, len(s.entries))
	for key, value := range s.entries {
		entries[key] = value
	}
	return newStore(s.shape, entries)
}
