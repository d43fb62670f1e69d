// SPDX-License-Identifier: MIT

package matrix

import "fmt"

const (
	opMul = "Mul"
	opPow = "Pow"
)

// Mul returns the product a·b.
// MAIN DESCRIPTION:
//   - Dense GEMM used to chain transition matrices (P·Q = two-period moves).
//
// Implementation:
//   - Stage 1: validate non-nil operands and a.Cols == b.Rows.
//   - Stage 2: i→k→j over row-major strides, skipping zero a[i,k].
//
// Behavior highlights:
//   - Deterministic loop order; one allocation for the result.
//   - Zero-area operands give a legal zero-area result.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, fmt.Errorf("%s: %w", opMul, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, fmt.Errorf("%s: %w", opMul, err)
	}
	if a.c != b.r {
		return nil, fmt.Errorf("%s: %d×%d · %d×%d: %w", opMul, a.r, a.c, b.r, b.c, ErrDimensionMismatch)
	}

	res := &Dense{r: a.r, c: b.c, data: make([]float64, a.r*b.c)}
	var i, k, j int
	var av float64
	var rowA, rowB, rowR int
	for i = 0; i < a.r; i++ {
		rowA = i * a.c
		rowR = i * b.c
		for k = 0; k < a.c; k++ {
			av = a.data[rowA+k]
			if av == 0 {
				continue
			}
			rowB = k * b.c
			for j = 0; j < b.c; j++ {
				res.data[rowR+j] += av * b.data[rowB+j]
			}
		}
	}

	return res, nil
}

// Identity returns the n×n identity (0×0 when n == 0).
func Identity(n int) *Dense {
	m := &Dense{r: n, c: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m
}

// Pow returns m^k for square m by repeated squaring. m^0 is the identity.
// For a row-stochastic m, row i of m^k is the distribution k periods after
// starting in bucket i.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrOutOfRange (k < 0).
// Complexity: O(n³ log k).
func Pow(m *Dense, k int) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, fmt.Errorf("%s: %w", opPow, err)
	}
	if k < 0 {
		return nil, fmt.Errorf("%s: k=%d: %w", opPow, k, ErrOutOfRange)
	}

	result := Identity(m.r)
	base := m.Copy()
	var err error
	for k > 0 {
		if k&1 == 1 {
			if result, err = Mul(result, base); err != nil {
				return nil, fmt.Errorf("%s: %w", opPow, err)
			}
		}
		k >>= 1
		if k > 0 {
			if base, err = Mul(base, base); err != nil {
				return nil, fmt.Errorf("%s: %w", opPow, err)
			}
		}
	}

	return result, nil
}
