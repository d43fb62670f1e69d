// SPDX-License-Identifier: MIT

package panel

import (
	"cmp"
	"slices"
)

// alignKey identifies an entity at an instant. UnixNano ignores location and
// monotonic readings, so equal instants always collide.
type alignKey struct {
	entity string
	at     int64
}

// Option configures Align.
type Option func(*alignOptions)

type alignOptions struct {
	grouped bool
}

// WithGroups annotates every pair with the group of its origin observation.
func WithGroups() Option {
	return func(o *alignOptions) { o.grouped = true }
}

// Align pairs each observation at T with the same entity's observation at step(T).
// MAIN DESCRIPTION:
//   - Equality join on (entity, shifted period); order-independent.
//
// Implementation:
//   - Stage 1: sort a copy of obs by (entity, period) so output order is canonical.
//   - Stage 2: index destinations by (entity, period instant).
//   - Stage 3: for every origin, emit one pair per destination at step(T).
//
// Behavior highlights:
//   - Gaps produce no pair; there is no fallback to the next available period.
//   - Duplicate (entity, period) rows multiply like an inner join would;
//     deduplicating input is the caller's job.
//   - The input slice is not modified.
//
// Complexity:
//   - Time O(N log N), Space O(N).
func Align(obs []Observation, step Step, opts ...Option) []Pair {
	var o alignOptions
	for _, opt := range opts {
		opt(&o)
	}
	if step == nil {
		step = Month
	}

	sorted := slices.Clone(obs)
	slices.SortStableFunc(sorted, func(a, b Observation) int {
		if c := cmp.Compare(a.Entity, b.Entity); c != 0 {
			return c
		}
		return a.Period.Compare(b.Period)
	})

	byKey := make(map[alignKey][]int, len(sorted))
	for i, ob := range sorted {
		k := alignKey{entity: ob.Entity, at: ob.Period.UnixNano()}
		byKey[k] = append(byKey[k], i)
	}

	pairs := make([]Pair, 0, len(sorted))
	for _, from := range sorted {
		next := alignKey{entity: from.Entity, at: step(from.Period).UnixNano()}
		for _, j := range byKey[next] {
			p := Pair{
				Entity: from.Entity,
				Period: from.Period,
				From:   from.Value,
				To:     sorted[j].Value,
			}
			if o.grouped {
				p.Group = from.Group
			}
			pairs = append(pairs, p)
		}
	}

	return pairs
}
