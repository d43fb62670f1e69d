// SPDX-License-Identifier: MIT

// Package bucket maps raw values (e.g. days past due) onto an ordered set of
// left-closed, right-open intervals.
//
// Thresholds b0 < b1 < … < b(n-1) define interval i = [b_i, b_(i+1)) for
// i < n-1 and interval n-1 = [b_(n-1), +∞). Values below b0 have no bucket.
//
//	idx, _ := bucket.New([]int{0, 30, 60})
//	i, _ := idx.Locate(45) // i == 1, the [30,60) bucket
package bucket
