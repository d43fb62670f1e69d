// SPDX-License-Identifier: MIT

// Package matrix provides the dense numeric storage behind count and
// transition matrices.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set that
//     return errors instead of panicking.
//   - Row/column kernels used by sparse-row cleaning: RowSums, Total,
//     AddRow, AddCol, ZeroRow, ZeroCol.
//   - Induced, a copy-based submatrix extraction over explicit index sets
//     (used to drop buckets on both axes at once).
//   - Validators for square and row-stochastic shapes, plus AllClose for
//     tolerance-based comparison in tests and idempotence checks.
//   - Mul and Pow for chaining transition matrices over several periods.
//   - ToGonum / FromGonum adapters for handing matrices to gonum/mat.
//
// All loops run in fixed i→j order, so identical inputs always produce
// bit-identical outputs.
package matrix
