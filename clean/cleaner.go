// SPDX-License-Identifier: MIT

package clean

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/rollrate/matrix"
)

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithAlpha sets the Laplace smoothing constant (DefaultAlpha otherwise).
// Validity is checked by New.
func WithAlpha(alpha float64) Option {
	return func(c *Cleaner) { c.alpha = alpha }
}

// WithSink routes rebin/drop events to s. A nil sink means Discard.
func WithSink(s Sink) Option {
	return func(c *Cleaner) {
		if s == nil {
			s = Discard
		}
		c.sink = s
	}
}

// Cleaner applies one Strategy plus additive smoothing. It holds no per-call
// state and is safe for concurrent use when its Sink is.
type Cleaner struct {
	strategy Strategy
	alpha    float64
	sink     Sink
}

// New builds a Cleaner.
//
// Errors:
//   - ErrNegativeAlpha when alpha < 0, NaN or ±Inf.
func New(strategy Strategy, opts ...Option) (*Cleaner, error) {
	c := &Cleaner{strategy: strategy, alpha: DefaultAlpha, sink: Discard}
	for _, opt := range opts {
		opt(c)
	}
	if c.alpha < 0 || math.IsNaN(c.alpha) || math.IsInf(c.alpha, 0) {
		return nil, fmt.Errorf("clean.New: alpha=%g: %w", c.alpha, ErrNegativeAlpha)
	}

	return c, nil
}

// Strategy returns the configured strategy.
func (c *Cleaner) Strategy() Strategy { return c.strategy }

// Alpha returns the smoothing constant.
func (c *Cleaner) Alpha() float64 { return c.alpha }

// Result is the outcome of one cleaning pass.
type Result struct {
	Matrix  *matrix.Dense // m×m cleaned matrix; rows with mass sum to 1
	Labels  []int         // the m surviving bucket labels, ascending
	Reduced *matrix.Dense // post-strategy, pre-smoothing counts (same shape as Matrix)
}

// Clean runs strategy then smoothing over counts. counts is not modified.
// MAIN DESCRIPTION:
//   - Eliminate sparse rows per the strategy, then add-alpha smooth the rest.
//
// Implementation:
//   - Stage 1: validate counts is n×n and len(labels) == n.
//   - Stage 2: work on a copy; rebin in place or drop via Induced.
//   - Stage 3: smooth every row with mass over the columns that remain.
//
// Behavior highlights:
//   - Rebin keeps labels; Drop returns only kept labels; None returns labels unchanged.
//   - Rows that end with zero mass are returned as exact zero vectors.
//   - Events are emitted with scope as their Scope field.
//
// Complexity:
//   - Rebin: O(s·n²) for s sparse rows. Drop/None: O(n²).
func (c *Cleaner) Clean(scope string, counts *matrix.Dense, labels []int) (*Result, error) {
	if err := matrix.ValidateSquare(counts); err != nil {
		return nil, fmt.Errorf("clean.Clean[%s]: %w: %w", scope, ErrShape, err)
	}
	if len(labels) != counts.Rows() {
		return nil, fmt.Errorf("clean.Clean[%s]: %d labels for %d buckets: %w", scope, len(labels), counts.Rows(), ErrShape)
	}

	work := counts.Copy()
	kept := slices.Clone(labels)
	var err error

	switch c.strategy.kind {
	case KindRebin:
		if err = rebin(work, labels, c.strategy, scope, c.sink); err != nil {
			return nil, fmt.Errorf("clean.Clean[%s]: %w", scope, err)
		}
	case KindDrop:
		if work, kept, err = drop(work, labels, c.strategy, scope, c.sink); err != nil {
			return nil, fmt.Errorf("clean.Clean[%s]: %w", scope, err)
		}
	}

	out, err := smooth(work, c.alpha)
	if err != nil {
		return nil, fmt.Errorf("clean.Clean[%s]: %w", scope, err)
	}

	return &Result{Matrix: out, Labels: kept, Reduced: work}, nil
}

// rebin merges every sparse row into a donor, in ascending label order.
// MAIN DESCRIPTION:
//   - For row i with total < minCount pick donor j (total >= minCount right now),
//     then move row i and column i into row j and column j.
//
// Implementation:
//   - Stage 1: row totals are re-read after every merge, so a donor that
//     grew in an earlier merge is seen with its new total.
//   - Stage 2: donor = nearest label within window; else nearest overall;
//     else none (row i is left as-is).
//   - Stage 3: AddRow, AddCol, ZeroRow, ZeroCol (in that order) conserve
//     Total() exactly.
//
// Behavior highlights:
//   - Zero-total rows are merged too: their column may still carry inbound mass.
//   - Distance ties go to the lower label.
func rebin(m *matrix.Dense, labels []int, s Strategy, scope string, sink Sink) error {
	minCount := float64(s.minCount)
	sums := m.RowSums()
	n := len(sums)

	var i, j int
	var ok bool
	var moved float64
	var err error
	for i = 0; i < n; i++ {
		if sums[i] >= minCount {
			continue
		}
		if j, ok = donor(i, sums, labels, s.window, minCount); !ok {
			continue
		}
		moved = sums[i]
		if err = m.AddRow(j, i); err != nil {
			return err
		}
		if err = m.AddCol(j, i); err != nil {
			return err
		}
		if err = m.ZeroRow(i); err != nil {
			return err
		}
		if err = m.ZeroCol(i); err != nil {
			return err
		}
		sums = m.RowSums()
		sink.Emit(Event{Kind: EventRebin, Scope: scope, Bucket: labels[i], Target: labels[j], Count: moved})
	}

	return nil
}

// donor picks the merge target for sparse row i, or ok=false when no row
// has total >= minCount.
func donor(i int, sums []float64, labels []int, window int, minCount float64) (int, bool) {
	near, nearDist := -1, 0
	best, bestDist := -1, 0
	for j := range sums {
		if j == i || sums[j] < minCount {
			continue
		}
		d := labels[j] - labels[i]
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = j, d
		}
		if d <= window && (near < 0 || d < nearDist) {
			near, nearDist = j, d
		}
	}
	if near >= 0 {
		return near, true
	}

	return best, best >= 0
}

// drop keeps only buckets with total >= minCount, on both axes.
func drop(m *matrix.Dense, labels []int, s Strategy, scope string, sink Sink) (*matrix.Dense, []int, error) {
	minCount := float64(s.minCount)
	sums := m.RowSums()

	keep := make([]int, 0, len(sums))
	kept := make([]int, 0, len(sums))
	for i, total := range sums {
		if total >= minCount {
			keep = append(keep, i)
			kept = append(kept, labels[i])
			continue
		}
		sink.Emit(Event{Kind: EventDrop, Scope: scope, Bucket: labels[i], Count: total})
	}

	reduced, err := m.Induced(keep, keep)
	if err != nil {
		return nil, nil, err
	}

	return reduced, kept, nil
}

// smooth returns (row + alpha) / Σ(row + alpha) for every row with mass.
// Zero-mass rows stay zero. m is not modified.
func smooth(m *matrix.Dense, alpha float64) (*matrix.Dense, error) {
	out := m.Copy()
	sums := m.RowSums()
	for i, total := range sums {
		if total <= 0 {
			continue
		}
		row, err := m.Row(i)
		if err != nil {
			return nil, err
		}
		floats.AddConst(alpha, row)
		floats.Scale(1/floats.Sum(row), row)
		if err = out.SetRow(i, row); err != nil {
			return nil, err
		}
	}

	return out, nil
}
