// SPDX-License-Identifier: MIT

package estimator_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rollrate/bucket"
	"github.com/katalvlaran/rollrate/clean"
	"github.com/katalvlaran/rollrate/estimator"
	"github.com/katalvlaran/rollrate/matrix"
	"github.com/katalvlaran/rollrate/panel"
)

func month(m time.Month) time.Time { return time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC) }

// reference panel: A (retail) 0→30→30, B (sme) 0→0→60.
func referencePanel() []panel.Observation {
	return []panel.Observation{
		{Entity: "A", Period: month(time.January), Value: 0, Group: "retail"},
		{Entity: "A", Period: month(time.February), Value: 30, Group: "retail"},
		{Entity: "A", Period: month(time.March), Value: 30, Group: "retail"},
		{Entity: "B", Period: month(time.January), Value: 0, Group: "sme"},
		{Entity: "B", Period: month(time.February), Value: 0, Group: "sme"},
		{Entity: "B", Period: month(time.March), Value: 60, Group: "sme"},
	}
}

func fitted(t *testing.T, opts ...estimator.Option) *estimator.Estimator {
	t.Helper()
	e, err := estimator.New([]int{0, 30, 60}, opts...)
	require.NoError(t, err)
	require.NoError(t, e.Fit(referencePanel(), estimator.Grouped()))
	return e
}

func requireRows(t *testing.T, want [][]float64, got *matrix.Dense) {
	t.Helper()
	exp, err := matrix.NewDenseFrom(want)
	require.NoError(t, err)
	ok, err := matrix.AllClose(exp, got, 0, 1e-12)
	require.NoError(t, err)
	require.Truef(t, ok, "want\n%sgot\n%s", exp, got)
}

func TestFitReferenceCounts(t *testing.T) {
	e := fitted(t)

	counts, err := e.Counts(estimator.Global())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 1, 1}, {0, 1, 0}, {0, 0, 0}}, counts.ToRows())

	m, err := e.Matrix(estimator.Global())
	require.NoError(t, err)
	requireRows(t, [][]float64{
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
		{0.25, 0.5, 0.25},
		{0, 0, 0},
	}, m)
	require.NoError(t, matrix.ValidateRowStochastic(m, matrix.DefaultEpsilon))
}

func TestFitGroupsAndStages(t *testing.T) {
	e := fitted(t)
	assert.Equal(t, []string{"retail", "sme"}, e.Groups())
	assert.Equal(t, []int{0, 30}, e.Stages())

	sme, err := e.Matrix(estimator.Group("sme"))
	require.NoError(t, err)
	requireRows(t, [][]float64{{0.4, 0.2, 0.4}, {0, 0, 0}, {0, 0, 0}}, sme)

	retail, err := e.Counts(estimator.Group("retail"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1, 0}, {0, 1, 0}, {0, 0, 0}}, retail.ToRows())

	stage0, err := e.Counts(estimator.Stage(0))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 1, 1}, {0, 0, 0}, {0, 0, 0}}, stage0.ToRows())

	stage30, err := e.Matrix(estimator.Stage(30))
	require.NoError(t, err)
	requireRows(t, [][]float64{{0, 0, 0}, {0.25, 0.5, 0.25}, {0, 0, 0}}, stage30)

	assert.Equal(t, []estimator.Key{
		estimator.Global(),
		estimator.Group("retail"), estimator.Group("sme"),
		estimator.Stage(0), estimator.Stage(30),
	}, e.Keys())
}

func TestFitWithoutGroups(t *testing.T) {
	e, err := estimator.New([]int{0, 30, 60})
	require.NoError(t, err)
	require.NoError(t, e.Fit(referencePanel()))

	assert.Empty(t, e.Groups())
	_, err = e.Matrix(estimator.Group("sme"))
	assert.ErrorIs(t, err, estimator.ErrUnknownKey)
}

func TestUnknownStage(t *testing.T) {
	e := fitted(t)
	_, err := e.Matrix(estimator.Stage(999))
	require.ErrorIs(t, err, estimator.ErrUnknownKey)
	assert.Contains(t, err.Error(), "stage:999")
}

func TestNotFitted(t *testing.T) {
	e, err := estimator.New([]int{0, 30})
	require.NoError(t, err)

	_, err = e.Matrix(estimator.Global())
	assert.ErrorIs(t, err, estimator.ErrNotFitted)
	_, err = e.Counts(estimator.Stage(0))
	assert.ErrorIs(t, err, estimator.ErrNotFitted)
	_, err = e.Grids()
	assert.ErrorIs(t, err, estimator.ErrNotFitted)
	_, err = e.Snapshot()
	assert.ErrorIs(t, err, estimator.ErrNotFitted)
	assert.False(t, e.Fitted())
	assert.Equal(t, uuid.Nil, e.FitID())
	assert.Nil(t, e.Keys())
}

func TestConfigurationErrors(t *testing.T) {
	cases := map[string]struct {
		buckets []int
		opts    []estimator.Option
	}{
		"both strategies": {[]int{0, 30}, []estimator.Option{estimator.WithAutoRebin(true), estimator.WithDropEmpty(true)}},
		"strategy plus flag": {[]int{0, 30}, []estimator.Option{
			estimator.WithStrategy(clean.Drop(3)), estimator.WithAutoRebin(true),
		}},
		"negative alpha": {[]int{0, 30}, []estimator.Option{estimator.WithAlpha(-1)}},
		"no buckets":     {nil, nil},
		"duplicates":     {[]int{0, 30, 30}, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := estimator.New(tc.buckets, tc.opts...)
			assert.ErrorIs(t, err, estimator.ErrConfiguration)
		})
	}
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { estimator.WithMinCount(-1) })
	assert.Panics(t, func() { estimator.WithRebinWindow(-1) })
	assert.Panics(t, func() { estimator.WithParallelism(0) })
}

func TestStrategyResolution(t *testing.T) {
	e, err := estimator.New([]int{0}, estimator.WithAutoRebin(true), estimator.WithMinCount(3), estimator.WithRebinWindow(15))
	require.NoError(t, err)
	assert.Equal(t, clean.Rebin(15, 3), e.Strategy())

	e, err = estimator.New([]int{0}, estimator.WithDropEmpty(true), estimator.WithMinCount(4))
	require.NoError(t, err)
	assert.Equal(t, clean.Drop(4), e.Strategy())

	e, err = estimator.New([]int{0})
	require.NoError(t, err)
	assert.Equal(t, clean.KindNone, e.Strategy().Kind())
	assert.Equal(t, estimator.DefaultAlpha, e.Alpha())

	e, err = estimator.New([]int{60, 0, 30})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 30, 60}, e.Buckets())
}

func TestDropEmpty(t *testing.T) {
	rec := &clean.Recorder{}
	e := fitted(t, estimator.WithDropEmpty(true), estimator.WithMinCount(2), estimator.WithSink(rec))

	labels, err := e.Labels(estimator.Global())
	require.NoError(t, err)
	assert.Equal(t, []int{0}, labels)
	m, err := e.Matrix(estimator.Global())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}}, m.ToRows())

	// sme row 0 has total 2: kept at min_count=2 ...
	labels, err = e.Labels(estimator.Group("sme"))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, labels)

	assert.Contains(t, rec.Events(), clean.Event{Kind: clean.EventDrop, Scope: "global", Bucket: 30, Count: 1})
}

func TestDropEmptyRemovesSparseRow(t *testing.T) {
	e := fitted(t, estimator.WithDropEmpty(true))

	// ... and removed from both axes at the default min_count=10.
	labels, err := e.Labels(estimator.Group("sme"))
	require.NoError(t, err)
	assert.Empty(t, labels)
	m, err := e.Matrix(estimator.Group("sme"))
	require.NoError(t, err)
	r, c := m.Shape()
	assert.Equal(t, 0, r)
	assert.Equal(t, 0, c)

	counts, err := e.Counts(estimator.Group("sme"))
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Rows(), "raw counts keep the full index")
}

func TestAutoRebin(t *testing.T) {
	rec := &clean.Recorder{}
	e, err := estimator.New([]int{0, 30, 60},
		estimator.WithAutoRebin(true), estimator.WithMinCount(2), estimator.WithSink(rec))
	require.NoError(t, err)
	require.NoError(t, e.Fit(referencePanel()))

	res, err := e.Result(estimator.Global())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 30, 60}, res.Labels)
	assert.Equal(t, [][]float64{{4, 0, 0}, {0, 0, 0}, {0, 0, 0}}, res.Reduced.ToRows())
	requireRows(t, [][]float64{{5.0 / 7, 1.0 / 7, 1.0 / 7}, {0, 0, 0}, {0, 0, 0}}, res.Matrix)

	assert.Equal(t, []clean.Event{
		{Kind: clean.EventRebin, Scope: "global", Bucket: 30, Target: 0, Count: 1},
		{Kind: clean.EventRebin, Scope: "global", Bucket: 60, Target: 0, Count: 0},
		{Kind: clean.EventRebin, Scope: "stage:0", Bucket: 30, Target: 0, Count: 0},
		{Kind: clean.EventRebin, Scope: "stage:0", Bucket: 60, Target: 0, Count: 0},
	}, rec.Events())
}

func TestFitIdempotent(t *testing.T) {
	e := fitted(t, estimator.WithAutoRebin(true), estimator.WithMinCount(2))
	first := make(map[estimator.Key]*matrix.Dense)
	for _, k := range e.Keys() {
		m, err := e.Matrix(k)
		require.NoError(t, err)
		first[k] = m
	}
	id := e.FitID()

	require.NoError(t, e.Fit(referencePanel(), estimator.Grouped()))
	assert.NotEqual(t, id, e.FitID())
	require.Len(t, e.Keys(), len(first))
	for _, k := range e.Keys() {
		m, err := e.Matrix(k)
		require.NoError(t, err)
		assert.Truef(t, matrix.Equal(first[k], m), "%s differs between fits", k)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	obs := syntheticPanel(40, 18)
	buckets := []int{0, 1, 30, 60, 90, 120}

	seq, err := estimator.New(buckets, estimator.WithAutoRebin(true))
	require.NoError(t, err)
	require.NoError(t, seq.Fit(obs, estimator.Grouped()))

	rec := &clean.Recorder{}
	par, err := estimator.New(buckets, estimator.WithAutoRebin(true),
		estimator.WithParallelism(4), estimator.WithSink(rec))
	require.NoError(t, err)
	require.NoError(t, par.Fit(obs, estimator.Grouped()))

	require.Equal(t, seq.Keys(), par.Keys())
	for _, k := range seq.Keys() {
		a, err := seq.Matrix(k)
		require.NoError(t, err)
		b, err := par.Matrix(k)
		require.NoError(t, err)
		assert.Truef(t, matrix.Equal(a, b), "%s", k)
	}
}

func TestStochasticRowsOnSyntheticPanel(t *testing.T) {
	for _, opt := range []estimator.Option{
		estimator.WithStrategy(clean.None()),
		estimator.WithAutoRebin(true),
		estimator.WithDropEmpty(true),
	} {
		e, err := estimator.New([]int{0, 1, 30, 60, 90, 120}, opt, estimator.WithMinCount(5))
		require.NoError(t, err)
		require.NoError(t, e.Fit(syntheticPanel(30, 12), estimator.Grouped()))

		for _, k := range e.Keys() {
			res, err := e.Result(k)
			require.NoError(t, err)
			counts, err := e.Counts(k)
			require.NoError(t, err)
			require.NoErrorf(t, matrix.ValidateRowStochastic(res.Matrix, matrix.DefaultEpsilon), "%s %s", e.Strategy(), k)
			if e.Strategy().Kind() != clean.KindDrop {
				assert.InDeltaf(t, counts.Total(), res.Reduced.Total(), 1e-9, "%s mass", k)
			}
			sums := res.Reduced.RowSums()
			for i, row := range res.Matrix.ToRows() {
				if sums[i] == 0 {
					assert.Equalf(t, make([]float64, len(row)), row, "%s row %d", k, i)
				}
			}
		}
	}
}

func TestFailedFitKeepsPreviousResult(t *testing.T) {
	e := fitted(t)
	id := e.FitID()

	bad := append(referencePanel(),
		panel.Observation{Entity: "C", Period: month(time.January), Value: -5},
		panel.Observation{Entity: "C", Period: month(time.February), Value: 0},
	)
	err := e.Fit(bad)
	require.ErrorIs(t, err, bucket.ErrOutOfRange)
	assert.Equal(t, id, e.FitID())
	assert.Equal(t, []string{"retail", "sme"}, e.Groups())
}

func TestFitEmptyPanel(t *testing.T) {
	e, err := estimator.New([]int{0, 30})
	require.NoError(t, err)
	require.NoError(t, e.Fit(nil))

	m, err := e.Matrix(estimator.Global())
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Total())
	assert.Empty(t, e.Stages())
}

func TestQueriesReturnCopies(t *testing.T) {
	e := fitted(t)
	m, err := e.Matrix(estimator.Global())
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 0, 42))

	again, err := e.Matrix(estimator.Global())
	require.NoError(t, err)
	v, err := again.At(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, v, 1e-12)
}

func TestSelect(t *testing.T) {
	e := fitted(t)
	group, stage := "sme", 30

	m, err := e.Select(estimator.Selector{})
	require.NoError(t, err)
	g, err := e.Matrix(estimator.Global())
	require.NoError(t, err)
	assert.True(t, matrix.Equal(g, m))

	m, err = e.Select(estimator.Selector{Group: &group})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())

	_, err = e.Select(estimator.Selector{Stage: &stage})
	require.NoError(t, err)

	_, err = e.Select(estimator.Selector{Group: &group, Stage: &stage})
	assert.ErrorIs(t, err, estimator.ErrInvalidSelector)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "global", estimator.Global().String())
	assert.Equal(t, "group:sme", estimator.Group("sme").String())
	assert.Equal(t, "stage:30", estimator.Stage(30).String())
	assert.Equal(t, estimator.KindStage, estimator.Stage(30).Kind())
	assert.Equal(t, 30, estimator.Stage(30).Value())
	assert.Equal(t, "sme", estimator.Group("sme").Label())
}

func TestFitFrame(t *testing.T) {
	const csv = `id,date,dpd,segment
A,2023-12-31,0,retail
A,2024-01-31,30,retail
A,2024-02-29,30,retail
B,2023-12-31,0,sme
B,2024-01-31,0,sme
B,2024-02-29,60,sme
`
	f, err := panel.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	e, err := estimator.New([]int{0, 30, 60})
	require.NoError(t, err)

	require.NoError(t, e.FitFrame(f, panel.Columns{ID: "id", Time: "date", Bucket: "dpd", Group: "segment"}))
	counts, err := e.Counts(estimator.Global())
	require.NoError(t, err)
	assert.Equal(t, 4.0, counts.Total(), "month-end dates chain with clamping")
	assert.Equal(t, []string{"retail", "sme"}, e.Groups())

	err = e.FitFrame(f, panel.Columns{ID: "id", Time: "when", Bucket: "dpd"})
	assert.ErrorIs(t, err, panel.ErrMissingColumn)
}

func TestWithStepAndClock(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e, err := estimator.New([]int{0, 30},
		estimator.WithStep(panel.DayStep(1)),
		estimator.WithClock(func() time.Time { return at }))
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, e.Fit([]panel.Observation{
		{Entity: "A", Period: day(1), Value: 0},
		{Entity: "A", Period: day(2), Value: 30},
		{Entity: "A", Period: day(4), Value: 30},
	}))
	counts, err := e.Counts(estimator.Global())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1}, {0, 0}}, counts.ToRows())
	assert.True(t, at.Equal(e.FittedAt()))
}

// syntheticPanel builds a deterministic panel of n entities over months,
// with values drifting across buckets.
func syntheticPanel(n, months int) []panel.Observation {
	groups := []string{"north", "south", "east"}
	obs := make([]panel.Observation, 0, n*months)
	for i := 0; i < n; i++ {
		v := 0
		for m := 0; m < months; m++ {
			// deterministic pseudo-walk
			step := int(math.Mod(float64(i*7+m*13), 5))
			switch step {
			case 0:
				v = 0
			case 1, 2:
				v += 30
			case 3:
				v = max(0, v-30)
			}
			obs = append(obs, panel.Observation{
				Entity: "E" + string(rune('A'+i%26)) + string(rune('a'+i/26)),
				Period: time.Date(2023, time.Month(1+m), 1, 0, 0, 0, 0, time.UTC),
				Value:  min(v, 150),
				Group:  groups[i%len(groups)],
			})
		}
	}

	return obs
}

func TestProject(t *testing.T) {
	e := fitted(t)

	p1, err := e.Project(estimator.Global(), 1)
	require.NoError(t, err)
	m, err := e.Matrix(estimator.Global())
	require.NoError(t, err)
	assert.True(t, matrix.Equal(m, p1))

	p2, err := e.Project(estimator.Global(), 2)
	require.NoError(t, err)
	want, err := matrix.Mul(m, m)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(want, p2))

	_, err = e.Project(estimator.Global(), -1)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = e.Project(estimator.Stage(999), 2)
	assert.ErrorIs(t, err, estimator.ErrUnknownKey)
}
