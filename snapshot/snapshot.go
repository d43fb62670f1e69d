// SPDX-License-Identifier: MIT

package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/rollrate/matrix"
)

// Entry kinds.
const (
	KindGlobal = "global"
	KindGroup  = "group"
	KindStage  = "stage"
)

// Entry is one modality of a fit.
type Entry struct {
	Kind   string      `json:"kind"`
	Key    string      `json:"key"`
	Labels []int       `json:"labels"`
	Counts [][]float64 `json:"counts"`
	Matrix [][]float64 `json:"matrix"`
}

// Snapshot is a complete fit.
type Snapshot struct {
	ID       uuid.UUID `json:"id"`
	FittedAt time.Time `json:"fitted_at"`
	Buckets  []int     `json:"buckets"`
	Strategy string    `json:"strategy"`
	Alpha    float64   `json:"alpha"`
	Entries  []Entry   `json:"entries"`
}

// Store saves and loads snapshots.
type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	Latest(ctx context.Context) (*Snapshot, error)
}

// Validate checks that the snapshot has an ID, that each entry's matrix is
// len(Labels)×len(Labels), and that counts match the full bucket index.
func (s *Snapshot) Validate() error {
	if s == nil || s.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	n := len(s.Buckets)
	for i, e := range s.Entries {
		if e.Kind != KindGlobal && e.Kind != KindGroup && e.Kind != KindStage {
			return fmt.Errorf("%w: entry %d: kind %q", ErrInvalid, i, e.Kind)
		}
		if !square(e.Counts, n) {
			return fmt.Errorf("%w: entry %d (%s): counts are not %d×%d", ErrInvalid, i, e.Key, n, n)
		}
		if !square(e.Matrix, len(e.Labels)) {
			return fmt.Errorf("%w: entry %d (%s): matrix does not match %d labels", ErrInvalid, i, e.Key, len(e.Labels))
		}
	}

	return nil
}

// Find returns the entry with the given key.
func (s *Snapshot) Find(key string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Key == key {
			return e, true
		}
	}

	return Entry{}, false
}

// Dense converts the entry's cleaned matrix.
func (e Entry) Dense() (*matrix.Dense, error) {
	return matrix.NewDenseFrom(e.Matrix)
}

func square(rows [][]float64, n int) bool {
	if len(rows) != n {
		return false
	}
	for _, r := range rows {
		if len(r) != n {
			return false
		}
	}

	return true
}
