// SPDX-License-Identifier: MIT

package transition

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/katalvlaran/rollrate/bucket"
	"github.com/katalvlaran/rollrate/matrix"
	"github.com/katalvlaran/rollrate/panel"
)

// Count builds the global count matrix: cell (i,j) is the number of pairs
// whose origin locates to bucket i and destination to bucket j.
//
// Errors:
//   - bucket.ErrOutOfRange (wrapped with entity and period) for values below b0.
//
// Complexity: Time O(P log n + n²), Space O(n²).
func Count(pairs []panel.Pair, idx *bucket.Index) (*matrix.Dense, error) {
	m, err := matrix.NewDense(idx.Len(), idx.Len())
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		if err = add(m, idx, p); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// CountByGroup builds one count matrix per distinct group label.
func CountByGroup(pairs []panel.Pair, idx *bucket.Index) (*Counts[string], error) {
	return countBy(pairs, idx, func(p panel.Pair) string { return p.Group })
}

// CountByStage builds one full count matrix per distinct raw origin value.
// Each stage matrix only has mass in the rows its origin values locate to;
// the full n×n shape is kept so every modality cleans the same way.
func CountByStage(pairs []panel.Pair, idx *bucket.Index) (*Counts[int], error) {
	return countBy(pairs, idx, func(p panel.Pair) int { return p.From })
}

// countBy does the keyed accumulation: keys are collected and sorted first,
// one zero matrix is inserted per key, then a single pass over pairs counts.
func countBy[K cmp.Ordered](pairs []panel.Pair, idx *bucket.Index, key func(panel.Pair) K) (*Counts[K], error) {
	keys := make([]K, 0)
	seen := make(map[K]struct{})
	for _, p := range pairs {
		k := key(p)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	out := newCounts[K]()
	for _, k := range keys {
		m, err := matrix.NewDense(idx.Len(), idx.Len())
		if err != nil {
			return nil, err
		}
		out.m.Set(k, m)
	}
	for _, p := range pairs {
		m, _ := out.m.Get(key(p))
		if err := add(m, idx, p); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func add(m *matrix.Dense, idx *bucket.Index, p panel.Pair) error {
	i, err := idx.Locate(p.From)
	if err != nil {
		return fmt.Errorf("entity %q at %s: origin: %w", p.Entity, p.Period.Format("2006-01-02"), err)
	}
	j, err := idx.Locate(p.To)
	if err != nil {
		return fmt.Errorf("entity %q at %s: destination: %w", p.Entity, p.Period.Format("2006-01-02"), err)
	}

	return m.Add(i, j, 1)
}
