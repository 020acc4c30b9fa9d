package config

import (
	_ "github.com/expki/go-covariance/env"
)

const (
	// DefaultSymmetryTolerance is the largest |M[i][j]-M[j][i]| a dense input may
	// carry and still be accepted as symmetric.
	DefaultSymmetryTolerance = 1e-9

	// DefaultTolerance is the negligibility threshold for storing entries.
	// Zero keeps every exactly-nonzero value.
	DefaultTolerance = 0.0

	// DefaultDenseElementLimit caps dense materialization at n*n elements
	// (16M float64 ~ 128MiB).
	DefaultDenseElementLimit = 16_000_000
)

// Covariance holds the numeric policy for building and materializing matrices.
type Covariance struct {
	// Tolerance drops entries with |value| <= Tolerance when sparsifying.
	Tolerance float64 `json:"tolerance"`
	// SymmetryTolerance bounds the accepted asymmetry of dense inputs.
	SymmetryTolerance float64 `json:"symmetry_tolerance"`
	// DenseElementLimit bounds n*n for dense materialization.
	DenseElementLimit int `json:"dense_element_limit"`
}

// DefaultCovariance returns the documented defaults.
func DefaultCovariance() Covariance {
	return Covariance{
		Tolerance:         DefaultTolerance,
		SymmetryTolerance: DefaultSymmetryTolerance,
		DenseElementLimit: DefaultDenseElementLimit,
	}
}

// Normalized replaces unset or nonsensical fields with the documented defaults.
func (c Covariance) Normalized() Covariance {
	if c.SymmetryTolerance <= 0 {
		c.SymmetryTolerance = DefaultSymmetryTolerance
	}
	if c.Tolerance < 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.DenseElementLimit <= 0 {
		c.DenseElementLimit = DefaultDenseElementLimit
	}
	return c
}
