// SPDX-License-Identifier: MIT

package transition

import (
	"cmp"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/katalvlaran/rollrate/matrix"
)

// Counts is an ordered mapping from a scope key to its count matrix.
// Keys iterate in the order they were inserted; the constructors in this
// package insert them in ascending order.
type Counts[K cmp.Ordered] struct {
	m *orderedmap.OrderedMap[K, *matrix.Dense]
}

func newCounts[K cmp.Ordered]() *Counts[K] {
	return &Counts[K]{m: orderedmap.New[K, *matrix.Dense]()}
}

// Len returns the number of keys.
func (c *Counts[K]) Len() int { return c.m.Len() }

// Get returns the count matrix stored under k.
func (c *Counts[K]) Get(k K) (*matrix.Dense, bool) { return c.m.Get(k) }

// Keys returns the keys in iteration order.
func (c *Counts[K]) Keys() []K {
	keys := make([]K, 0, c.m.Len())
	for p := c.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}

	return keys
}

// Each calls f for every key in iteration order and stops at the first error.
func (c *Counts[K]) Each(f func(k K, m *matrix.Dense) error) error {
	for p := c.m.Oldest(); p != nil; p = p.Next() {
		if err := f(p.Key, p.Value); err != nil {
			return err
		}
	}

	return nil
}
