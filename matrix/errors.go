// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All public functions return these sentinels (possibly wrapped with
// fmt.Errorf("ctx: %w", ErrX)); tests match them via errors.Is.
// No function panics on user-triggered error conditions.

package matrix

import "errors"

// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/Add) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrRaggedRows indicates that a [][]float64 literal has rows of unequal length.
	ErrRaggedRows = errors.New("matrix: ragged rows")

	// ErrNotStochastic indicates that a row with mass does not sum to 1 within eps,
	// or that an entry falls outside [0,1].
	ErrNotStochastic = errors.New("matrix: row is not stochastic within eps")
)
