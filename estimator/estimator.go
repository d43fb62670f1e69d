// SPDX-License-Identifier: MIT

package estimator

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/rollrate/bucket"
	"github.com/katalvlaran/rollrate/clean"
	"github.com/katalvlaran/rollrate/matrix"
	"github.com/katalvlaran/rollrate/panel"
	"github.com/katalvlaran/rollrate/transition"
)

// Estimator holds the configuration and the most recent fit.
type Estimator struct {
	index       *bucket.Index
	cleaner     *clean.Cleaner
	step        panel.Step
	parallelism int
	clock       func() time.Time
	fit         *fitted
}

// entry is one modality: its raw counts and cleaned result.
type entry struct {
	key    Key
	counts *matrix.Dense
	result *clean.Result
}

type fitted struct {
	id     uuid.UUID
	at     time.Time
	global *entry
	groups map[string]*entry
	stages map[int]*entry
	gorder []string
	sorder []int
}

func errConfig(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, msg)
}

// New validates the configuration and returns an unfitted Estimator.
//
// Errors (all wrap ErrConfiguration):
//   - both WithAutoRebin(true) and WithDropEmpty(true);
//   - empty or duplicate thresholds;
//   - negative alpha.
func New(buckets []int, opts ...Option) (*Estimator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	strategy, err := o.resolve()
	if err != nil {
		return nil, fmt.Errorf("estimator.New: %w", err)
	}
	idx, err := bucket.New(buckets)
	if err != nil {
		return nil, fmt.Errorf("estimator.New: %w: %w", ErrConfiguration, err)
	}
	cleaner, err := clean.New(strategy, clean.WithAlpha(o.alpha), clean.WithSink(o.sink))
	if err != nil {
		return nil, fmt.Errorf("estimator.New: %w: %w", ErrConfiguration, err)
	}

	return &Estimator{
		index:       idx,
		cleaner:     cleaner,
		step:        o.step,
		parallelism: o.parallelism,
		clock:       o.clock,
	}, nil
}

// Buckets returns the sorted thresholds.
func (e *Estimator) Buckets() []int { return e.index.Labels() }

// Strategy returns the cleaning strategy.
func (e *Estimator) Strategy() clean.Strategy { return e.cleaner.Strategy() }

// Alpha returns the smoothing constant.
func (e *Estimator) Alpha() float64 { return e.cleaner.Alpha() }

// Fit estimates every modality from obs and replaces any previous fit.
// MAIN DESCRIPTION:
//   - Align consecutive periods, count transitions, clean each modality.
//
// Implementation:
//   - Stage 1: panel.Align with the configured Step (groups kept iff Grouped).
//   - Stage 2: global, per-group and per-stage counts over the full bucket index.
//   - Stage 3: clean every modality; up to parallelism at once via errgroup.
//   - Stage 4: swap the new result set in.
//
// Behavior highlights:
//   - Deterministic: identical input gives bit-identical matrices.
//   - On error nothing is replaced.
//   - A panel with no consecutive pairs still fits: every matrix is zero.
//
// Errors:
//   - bucket.ErrOutOfRange (wrapped with entity/period) for a value below b0.
func (e *Estimator) Fit(obs []panel.Observation, opts ...FitOption) error {
	var fo fitOptions
	for _, opt := range opts {
		opt(&fo)
	}

	var alignOpts []panel.Option
	if fo.grouped {
		alignOpts = append(alignOpts, panel.WithGroups())
	}
	pairs := panel.Align(obs, e.step, alignOpts...)

	global, err := transition.Count(pairs, e.index)
	if err != nil {
		return fmt.Errorf("estimator.Fit: %w", err)
	}
	f := &fitted{
		id:     uuid.New(),
		global: &entry{key: Global(), counts: global},
		groups: make(map[string]*entry),
		stages: make(map[int]*entry),
	}
	jobs := []*entry{f.global}

	if fo.grouped {
		byGroup, err := transition.CountByGroup(pairs, e.index)
		if err != nil {
			return fmt.Errorf("estimator.Fit: %w", err)
		}
		_ = byGroup.Each(func(label string, m *matrix.Dense) error {
			en := &entry{key: Group(label), counts: m}
			f.groups[label] = en
			f.gorder = append(f.gorder, label)
			jobs = append(jobs, en)
			return nil
		})
	}

	byStage, err := transition.CountByStage(pairs, e.index)
	if err != nil {
		return fmt.Errorf("estimator.Fit: %w", err)
	}
	_ = byStage.Each(func(v int, m *matrix.Dense) error {
		en := &entry{key: Stage(v), counts: m}
		f.stages[v] = en
		f.sorder = append(f.sorder, v)
		jobs = append(jobs, en)
		return nil
	})

	if err = e.clean(jobs); err != nil {
		return fmt.Errorf("estimator.Fit: %w", err)
	}
	f.at = e.clock()
	e.fit = f

	return nil
}

// FitFrame converts frame rows with cols and fits them. Group segmentation
// is enabled iff cols.Group is set.
func (e *Estimator) FitFrame(frame *panel.Frame, cols panel.Columns) error {
	obs, err := frame.Observations(cols)
	if err != nil {
		return fmt.Errorf("estimator.FitFrame: %w", err)
	}
	var opts []FitOption
	if cols.Grouped() {
		opts = append(opts, Grouped())
	}

	return e.Fit(obs, opts...)
}

// clean runs the cleaner over jobs. With parallelism 1, jobs run strictly
// in order so sink events are deterministic.
func (e *Estimator) clean(jobs []*entry) error {
	labels := e.index.Labels()
	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for _, en := range jobs {
		g.Go(func() error {
			res, err := e.cleaner.Clean(en.key.String(), en.counts, labels)
			if err != nil {
				return err
			}
			en.result = res
			return nil
		})
	}

	return g.Wait()
}

// lookup resolves key against the current fit.
func (e *Estimator) lookup(key Key) (*entry, error) {
	if e.fit == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFitted)
	}
	var en *entry
	var ok bool
	switch key.kind {
	case KindGlobal:
		en, ok = e.fit.global, true
	case KindGroup:
		en, ok = e.fit.groups[key.group]
	case KindStage:
		en, ok = e.fit.stages[key.stage]
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrUnknownKey)
	}

	return en, nil
}

// Fitted reports whether a Fit has succeeded.
func (e *Estimator) Fitted() bool { return e.fit != nil }

// FitID identifies the current fit (uuid.Nil before any).
func (e *Estimator) FitID() uuid.UUID {
	if e.fit == nil {
		return uuid.Nil
	}
	return e.fit.id
}

// FittedAt returns the current fit's timestamp.
func (e *Estimator) FittedAt() time.Time {
	if e.fit == nil {
		return time.Time{}
	}
	return e.fit.at
}

// Matrix returns a copy of the cleaned matrix for key.
func (e *Estimator) Matrix(key Key) (*matrix.Dense, error) {
	en, err := e.lookup(key)
	if err != nil {
		return nil, err
	}

	return en.result.Matrix.Copy(), nil
}

// Labels returns the bucket labels of the cleaned matrix for key.
// They differ from Buckets only under the drop strategy.
func (e *Estimator) Labels(key Key) ([]int, error) {
	en, err := e.lookup(key)
	if err != nil {
		return nil, err
	}

	return slices.Clone(en.result.Labels), nil
}

// Counts returns a copy of the raw n×n count matrix for key.
func (e *Estimator) Counts(key Key) (*matrix.Dense, error) {
	en, err := e.lookup(key)
	if err != nil {
		return nil, err
	}

	return en.counts.Copy(), nil
}

// Result returns a deep copy of the full cleaning result for key.
func (e *Estimator) Result(key Key) (*clean.Result, error) {
	en, err := e.lookup(key)
	if err != nil {
		return nil, err
	}

	return &clean.Result{
		Matrix:  en.result.Matrix.Copy(),
		Labels:  slices.Clone(en.result.Labels),
		Reduced: en.result.Reduced.Copy(),
	}, nil
}

// Project returns the cleaned matrix for key raised to steps: row i is the
// expected bucket distribution steps periods after starting in bucket i.
func (e *Estimator) Project(key Key, steps int) (*matrix.Dense, error) {
	en, err := e.lookup(key)
	if err != nil {
		return nil, err
	}
	p, err := matrix.Pow(en.result.Matrix, steps)
	if err != nil {
		return nil, fmt.Errorf("Project(%s, %d): %w", key, steps, err)
	}

	return p, nil
}

// Select is Matrix addressed by a Selector.
func (e *Estimator) Select(sel Selector) (*matrix.Dense, error) {
	key, err := sel.Key()
	if err != nil {
		return nil, err
	}

	return e.Matrix(key)
}

// Groups returns the fitted group labels, ascending. Nil when unfitted or
// fitted without Grouped.
func (e *Estimator) Groups() []string {
	if e.fit == nil {
		return nil
	}
	return slices.Clone(e.fit.gorder)
}

// Stages returns the observed raw origin values, ascending.
func (e *Estimator) Stages() []int {
	if e.fit == nil {
		return nil
	}
	return slices.Clone(e.fit.sorder)
}

// Keys lists every stored key: global, groups, stages.
func (e *Estimator) Keys() []Key {
	if e.fit == nil {
		return nil
	}
	keys := make([]Key, 0, 1+len(e.fit.gorder)+len(e.fit.sorder))
	keys = append(keys, Global())
	for _, l := range e.fit.gorder {
		keys = append(keys, Group(l))
	}
	for _, v := range e.fit.sorder {
		keys = append(keys, Stage(v))
	}

	return keys
}
