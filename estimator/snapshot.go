// SPDX-License-Identifier: MIT

package estimator

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/rollrate/snapshot"
)

// Snapshot exports the current fit.
func (e *Estimator) Snapshot() (*snapshot.Snapshot, error) {
	if e.fit == nil {
		return nil, fmt.Errorf("Snapshot: %w", ErrNotFitted)
	}
	s := &snapshot.Snapshot{
		ID:       e.fit.id,
		FittedAt: e.fit.at,
		Buckets:  e.index.Labels(),
		Strategy: e.cleaner.Strategy().String(),
		Alpha:    e.cleaner.Alpha(),
	}
	for _, key := range e.Keys() {
		en, err := e.lookup(key)
		if err != nil {
			return nil, err
		}
		s.Entries = append(s.Entries, snapshot.Entry{
			Kind:   key.kind.String(),
			Key:    key.String(),
			Labels: slices.Clone(en.result.Labels),
			Counts: en.counts.ToRows(),
			Matrix: en.result.Matrix.ToRows(),
		})
	}

	return s, nil
}
