// SPDX-License-Identifier: MIT

// Package clean turns a raw transition count matrix into a row-stochastic
// matrix under sparse-data conditions.
//
// A Cleaner applies one Strategy to rows whose total is below a minimum
// count, then add-alpha (Laplace) smoothing to every row that still has mass:
//
//   - None:  rows are left alone.
//   - Rebin: each sparse row (and column) is merged into the nearest
//     sufficiently-populated bucket; dimensionality is preserved and total
//     mass is conserved exactly.
//   - Drop:  sparse buckets are removed from both axes, shrinking the label list.
//
// Rows with zero mass stay the zero vector after smoothing: no data, no
// inferred distribution. Every merge and drop is reported to a Sink as an
// Event; the package never logs on its own.
package clean
