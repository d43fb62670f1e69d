// SPDX-License-Identifier: MIT

// Package metrics exposes cleaning events and fit timings as Prometheus
// series.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/rollrate/clean"
)

const namespace = "rollrate"

// Collector counts cleaning events per scope and times fits. It implements
// clean.Sink and is safe for concurrent use.
type Collector struct {
	rebinEvents *prometheus.CounterVec
	rebinMoved  *prometheus.CounterVec
	dropEvents  *prometheus.CounterVec
	fitDuration prometheus.Histogram
}

var _ clean.Sink = (*Collector)(nil)

// New creates the collector and registers it with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		rebinEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebin_events_total",
			Help:      "Sparse buckets merged into a donor bucket.",
		}, []string{"scope"}),
		rebinMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebin_moved_total",
			Help:      "Transitions moved by re-binning.",
		}, []string{"scope"}),
		dropEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drop_events_total",
			Help:      "Sparse buckets dropped from a matrix.",
		}, []string{"scope"}),
		fitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_duration_seconds",
			Help:      "Wall time of estimator fits.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.rebinEvents, c.rebinMoved, c.dropEvents, c.fitDuration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Emit records one cleaning event.
func (c *Collector) Emit(e clean.Event) {
	switch e.Kind {
	case clean.EventRebin:
		c.rebinEvents.WithLabelValues(e.Scope).Inc()
		c.rebinMoved.WithLabelValues(e.Scope).Add(e.Count)
	case clean.EventDrop:
		c.dropEvents.WithLabelValues(e.Scope).Inc()
	}
}

// ObserveFit records the duration of one fit.
func (c *Collector) ObserveFit(d time.Duration) {
	c.fitDuration.Observe(d.Seconds())
}

// Time runs fn and observes its duration, returning fn's error.
func (c *Collector) Time(fn func() error) error {
	start := time.Now()
	err := fn()
	c.ObserveFit(time.Since(start))

	return err
}
