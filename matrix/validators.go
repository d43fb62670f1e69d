// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide a single, canonical source of truth for shape and
//     stochasticity checks.
//   - Return sentinel errors wrapped with the validator tag so call sites
//     can match them with errors.Is.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Returns ErrNilMatrix if m == nil (including a typed-nil *Dense).
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateRowStochastic checks that every entry lies in [0,1] (within eps)
// and that every row with non-zero mass sums to 1 within eps. All-zero rows
// are accepted: they mark states with no observed data.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNotStochastic (wrapped with the row index).
//
// Complexity: O(r*c).
func ValidateRowStochastic(m *Dense, eps float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	var i, j, base int
	var s, v float64
	for i = 0; i < m.r; i++ {
		base = i * m.c
		s = 0
		for j = 0; j < m.c; j++ {
			v = m.data[base+j]
			if v < -eps || v > 1+eps {
				return validatorErrorf(fmt.Sprintf("ValidateRowStochastic: cell (%d,%d)=%g", i, j, v), ErrNotStochastic)
			}
			s += v
		}
		if s != 0 && math.Abs(s-1) > eps {
			return validatorErrorf(fmt.Sprintf("ValidateRowStochastic: row %d sums to %g", i, s), ErrNotStochastic)
		}
	}

	return nil
}

// AllClose reports whether a and b have the same shape and
// |a[i,j]-b[i,j]| <= atol + rtol*|b[i,j]| holds element-wise.
// Complexity: O(r*c).
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if err := ValidateNotNil(a); err != nil {
		return false, err
	}
	if err := ValidateNotNil(b); err != nil {
		return false, err
	}
	if a.r != b.r || a.c != b.c {
		return false, validatorErrorf("AllClose", ErrDimensionMismatch)
	}
	for k := range a.data {
		if math.Abs(a.data[k]-b.data[k]) > atol+rtol*math.Abs(b.data[k]) {
			return false, nil
		}
	}

	return true, nil
}

// Equal reports bit-identical shape and contents.
// Complexity: O(r*c).
func Equal(a, b *Dense) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.r != b.r || a.c != b.c {
		return false
	}
	for k := range a.data {
		if math.Float64bits(a.data[k]) != math.Float64bits(b.data[k]) {
			return false
		}
	}

	return true
}
