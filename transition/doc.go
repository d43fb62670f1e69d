// SPDX-License-Identifier: MIT

// Package transition counts one-period transition pairs into n×n count
// matrices (rows = origin bucket, columns = destination bucket).
//
// Three aggregation scopes are offered: all pairs (Count), pairs keyed by the
// origin's group label (CountByGroup) and pairs keyed by the raw origin value
// (CountByStage). Keyed results come back as a Counts, an ordered mapping
// whose keys iterate in ascending order.
package transition
