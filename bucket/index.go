// SPDX-License-Identifier: MIT

package bucket

import (
	"fmt"
	"slices"
	"sort"
)

// Index is an immutable, strictly increasing list of bucket thresholds.
// Safe for concurrent use once built.
type Index struct {
	bounds []int // strictly increasing, len >= 1
}

// New builds an Index from thresholds given in any order.
// The input slice is copied and sorted; it is never mutated.
//
// Errors:
//   - ErrEmpty when thresholds is empty.
//   - ErrDuplicate when two thresholds are equal.
func New(thresholds []int) (*Index, error) {
	if len(thresholds) == 0 {
		return nil, ErrEmpty
	}
	bounds := slices.Clone(thresholds)
	slices.Sort(bounds)
	for i := 1; i < len(bounds); i++ {
		if bounds[i] == bounds[i-1] {
			return nil, fmt.Errorf("bucket.New: %d: %w", bounds[i], ErrDuplicate)
		}
	}

	return &Index{bounds: bounds}, nil
}

// Len returns the number of buckets.
func (x *Index) Len() int { return len(x.bounds) }

// Label returns the lower threshold of bucket i.
// It panics if i is out of range, like slice indexing.
func (x *Index) Label(i int) int { return x.bounds[i] }

// Labels returns a copy of the thresholds in ascending order.
func (x *Index) Labels() []int { return slices.Clone(x.bounds) }

// Locate returns the bucket index of value v.
// MAIN DESCRIPTION:
//   - Greatest threshold not exceeding v, found by a right-biased binary search.
//
// Implementation:
//   - Stage 1: k = first position whose threshold is strictly greater than v.
//   - Stage 2: bucket = k-1; k == 0 means v < b0.
//
// Behavior highlights:
//   - A value equal to a threshold belongs to that threshold's bucket (left-closed).
//   - Values at or above the last threshold all land in the last bucket.
//
// Errors:
//   - ErrOutOfRange when v < b0.
//
// Complexity:
//   - Time O(log n), Space O(1).
func (x *Index) Locate(v int) (int, error) {
	k := sort.Search(len(x.bounds), func(i int) bool { return x.bounds[i] > v })
	if k == 0 {
		return 0, fmt.Errorf("bucket.Locate(%d): smallest threshold is %d: %w", v, x.bounds[0], ErrOutOfRange)
	}

	return k - 1, nil
}
