// SPDX-License-Identifier: MIT

// Package matrix: adapters to gonum/mat, for callers that want to run
// linear algebra (powers, eigen-decomposition, stationary distributions)
// over an estimated transition matrix.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToGonum copies m into a freshly allocated *mat.Dense.
// gonum forbids zero-sized matrices, so 0×N / N×0 inputs return ErrInvalidDimensions.
// Complexity: O(r*c).
func (m *Dense) ToGonum() (*mat.Dense, error) {
	if m.r == 0 || m.c == 0 {
		return nil, fmt.Errorf("Dense.ToGonum: %w", ErrInvalidDimensions)
	}
	buf := make([]float64, len(m.data))
	copy(buf, m.data)

	return mat.NewDense(m.r, m.c, buf), nil
}

// FromGonum copies any gonum matrix into a Dense.
// Complexity: O(r*c).
func FromGonum(src mat.Matrix) (*Dense, error) {
	if src == nil {
		return nil, fmt.Errorf("FromGonum: %w", ErrNilMatrix)
	}
	r, c := src.Dims()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, fmt.Errorf("FromGonum: %w", err)
	}
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if err = out.Set(i, j, src.At(i, j)); err != nil {
				return nil, fmt.Errorf("FromGonum: %w", err)
			}
		}
	}

	return out, nil
}
