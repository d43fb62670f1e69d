// SPDX-License-Identifier: MIT

package clean

import (
	"fmt"
	"sync"
)

// EventKind tells rebin events from drop events.
type EventKind uint8

const (
	EventRebin EventKind = iota + 1
	EventDrop
)

func (k EventKind) String() string {
	switch k {
	case EventRebin:
		return "rebin"
	case EventDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Event reports one sparse bucket handled by a Cleaner.
type Event struct {
	Kind   EventKind
	Scope  string  // modality being cleaned: "global", "group:<label>", "stage:<value>"
	Bucket int     // label of the sparse bucket
	Target int     // rebin only: label of the bucket it merged into
	Count  float64 // rebin: transitions moved; drop: row total at drop time
}

func (e Event) String() string {
	if e.Kind == EventRebin {
		return fmt.Sprintf("[%s] bucket %d re-binned into %d (%g transitions moved)", e.Scope, e.Bucket, e.Target, e.Count)
	}

	return fmt.Sprintf("[%s] dropped bucket %d (total count=%g)", e.Scope, e.Bucket, e.Count)
}

// Sink receives cleaning events. Implementations used with a parallel
// estimator must be safe for concurrent use.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Tee fans every event out to each non-nil sink, in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s.Emit(e)
			}
		}
	})
}

// Recorder keeps every event in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
