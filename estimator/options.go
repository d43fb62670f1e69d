// SPDX-License-Identifier: MIT

package estimator

import (
	"time"

	"github.com/katalvlaran/rollrate/clean"
	"github.com/katalvlaran/rollrate/panel"
)

// Defaults.
const (
	DefaultAlpha       = clean.DefaultAlpha
	DefaultMinCount    = clean.DefaultMinCount
	DefaultRebinWindow = clean.DefaultRebinWindow
	DefaultParallelism = 1
)

type options struct {
	alpha       float64
	autoRebin   bool
	dropEmpty   bool
	minCount    int
	window      int
	strategy    *clean.Strategy
	step        panel.Step
	parallelism int
	sink        clean.Sink
	clock       func() time.Time
}

func defaultOptions() options {
	return options{
		alpha:       DefaultAlpha,
		minCount:    DefaultMinCount,
		window:      DefaultRebinWindow,
		step:        panel.Month,
		parallelism: DefaultParallelism,
		sink:        clean.Discard,
		clock:       time.Now,
	}
}

// Option configures an Estimator.
type Option func(*options)

// WithAlpha sets the Laplace smoothing constant. Negative values fail New.
func WithAlpha(alpha float64) Option {
	return func(o *options) { o.alpha = alpha }
}

// WithAutoRebin merges sparse rows into a nearby donor bucket.
func WithAutoRebin(on bool) Option {
	return func(o *options) { o.autoRebin = on }
}

// WithDropEmpty removes sparse buckets from both axes.
func WithDropEmpty(on bool) Option {
	return func(o *options) { o.dropEmpty = on }
}

// WithMinCount sets the row total below which a bucket is sparse.
// Panics if n < 0.
func WithMinCount(n int) Option {
	if n < 0 {
		panic("estimator: WithMinCount(negative)")
	}
	return func(o *options) { o.minCount = n }
}

// WithRebinWindow sets the preferred donor distance in label units.
// Panics if w < 0.
func WithRebinWindow(w int) Option {
	if w < 0 {
		panic("estimator: WithRebinWindow(negative)")
	}
	return func(o *options) { o.window = w }
}

// WithStrategy sets the cleaning strategy directly. It cannot be combined
// with WithAutoRebin or WithDropEmpty.
func WithStrategy(s clean.Strategy) Option {
	return func(o *options) { o.strategy = &s }
}

// WithStep sets the period arithmetic (panel.Month by default).
func WithStep(step panel.Step) Option {
	return func(o *options) {
		if step != nil {
			o.step = step
		}
	}
}

// WithParallelism cleans up to n modalities concurrently.
// Panics if n < 1.
func WithParallelism(n int) Option {
	if n < 1 {
		panic("estimator: WithParallelism(<1)")
	}
	return func(o *options) { o.parallelism = n }
}

// WithSink receives rebin/drop events. With parallelism > 1 it must be safe
// for concurrent use.
func WithSink(s clean.Sink) Option {
	return func(o *options) {
		if s == nil {
			s = clean.Discard
		}
		o.sink = s
	}
}

// WithClock overrides the fit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// resolve turns the flag pair (or an explicit strategy) into one Strategy.
func (o options) resolve() (clean.Strategy, error) {
	if o.autoRebin && o.dropEmpty {
		return clean.Strategy{}, errConfig("auto_rebin and drop_empty are mutually exclusive")
	}
	if o.strategy != nil {
		if o.autoRebin || o.dropEmpty {
			return clean.Strategy{}, errConfig("WithStrategy cannot be combined with auto_rebin/drop_empty")
		}
		return *o.strategy, nil
	}
	switch {
	case o.autoRebin:
		return clean.Rebin(o.window, o.minCount), nil
	case o.dropEmpty:
		return clean.Drop(o.minCount), nil
	default:
		return clean.None(), nil
	}
}

// FitOption configures a single Fit call.
type FitOption func(*fitOptions)

type fitOptions struct {
	grouped bool
}

// Grouped segments the fit by Observation.Group.
func Grouped() FitOption {
	return func(f *fitOptions) { f.grouped = true }
}
