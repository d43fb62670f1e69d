// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Row/column mass kernels for count matrices: sums, totals and the
//     move-mass primitives (AddRow/AddCol/ZeroRow/ZeroCol) that sparse-row
//     merging is composed of.
//
// Determinism & Performance:
//   - Fixed i→j traversal; operate directly on the flat row-major buffer.

package matrix

import "fmt"

// RowSums returns Σ_j m[i,j] for every row i.
// Complexity: Time O(r*c), Space O(r).
func (m *Dense) RowSums() []float64 {
	sums := make([]float64, m.r)
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			sums[i] += m.data[base+j]
		}
	}

	return sums
}

// ColSums returns Σ_i m[i,j] for every column j.
// Complexity: Time O(r*c), Space O(c).
func (m *Dense) ColSums() []float64 {
	sums := make([]float64, m.c)
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			sums[j] += m.data[base+j]
		}
	}

	return sums
}

// Total returns the sum of every cell.
// Complexity: O(r*c).
func (m *Dense) Total() float64 {
	var s float64
	for _, v := range m.data {
		s += v
	}

	return s
}

// AddRow adds row src into row dst element-wise: m[dst,*] += m[src,*].
// Row src is left unchanged; callers zero it explicitly when moving mass.
// Complexity: O(c).
func (m *Dense) AddRow(dst, src int) error {
	if dst < 0 || dst >= m.r || src < 0 || src >= m.r {
		return fmt.Errorf("Dense.AddRow(%d,%d): %w", dst, src, ErrOutOfRange)
	}
	var j int
	d, s := dst*m.c, src*m.c
	for j = 0; j < m.c; j++ {
		m.data[d+j] += m.data[s+j]
	}

	return nil
}

// AddCol adds column src into column dst element-wise: m[*,dst] += m[*,src].
// Complexity: O(r).
func (m *Dense) AddCol(dst, src int) error {
	if dst < 0 || dst >= m.c || src < 0 || src >= m.c {
		return fmt.Errorf("Dense.AddCol(%d,%d): %w", dst, src, ErrOutOfRange)
	}
	var i, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		m.data[base+dst] += m.data[base+src]
	}

	return nil
}

// ZeroRow sets every cell of row i to 0.
// Complexity: O(c).
func (m *Dense) ZeroRow(i int) error {
	if i < 0 || i >= m.r {
		return fmt.Errorf("Dense.ZeroRow(%d): %w", i, ErrOutOfRange)
	}
	clear(m.data[i*m.c : (i+1)*m.c])

	return nil
}

// ZeroCol sets every cell of column j to 0.
// Complexity: O(r).
func (m *Dense) ZeroCol(j int) error {
	if j < 0 || j >= m.c {
		return fmt.Errorf("Dense.ZeroCol(%d): %w", j, ErrOutOfRange)
	}
	var i int
	for i = 0; i < m.r; i++ {
		m.data[i*m.c+j] = 0
	}

	return nil
}
