package tsp

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// EventKind tags a trace Event.
type EventKind uint8

const (
	// EventAttempt is emitted for every relaxation evaluated during the sweep.
	EventAttempt EventKind = iota
	// EventImprove follows an EventAttempt whose candidate created or lowered
	// the target state.
	EventImprove
	// EventClose is emitted for every closing candidate (full mask, last ≠
	// source, edge last→source present) examined after the sweep.
	EventClose
)

var eventKindNames = [...]string{
	EventAttempt: "attempt",
	EventImprove: "improve",
	EventClose:   "close",
}

// String returns the wire name of k.
func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}

	return fmt.Sprintf("event(%d)", uint8(k))
}

// MarshalText encodes k by its wire name.
func (k EventKind) MarshalText() ([]byte, error) {
	if int(k) >= len(eventKindNames) {
		return nil, fmt.Errorf("tsp: unknown event kind %d", uint8(k))
	}

	return []byte(eventKindNames[k]), nil
}

// UnmarshalText decodes a wire name produced by MarshalText.
func (k *EventKind) UnmarshalText(b []byte) error {
	for i, name := range eventKindNames {
		if name == string(b) {
			*k = EventKind(i)
			return nil
		}
	}

	return fmt.Errorf("tsp: unknown event kind %q", b)
}

// Event describes one step of the sweep.
//
// For EventAttempt/EventImprove the step extends the path state (Mask, Last)
// by the edge Last→Next into (NextMask, Next); Candidate = Base + Weight and
// Previous is the cost of (NextMask, Next) before the comparison (meaningful
// when HadPrevious).
//
// For EventClose, Next is the source, NextMask is the full mask, Candidate is
// the closed tour cost and Previous is the best closed cost seen so far.
type Event struct {
	Seq         int       `json:"seq"`
	Kind        EventKind `json:"kind"`
	Mask        Mask      `json:"mask"`
	Last        int       `json:"last"`
	Next        int       `json:"next"`
	NextMask    Mask      `json:"next_mask"`
	Base        float64   `json:"base"`
	Weight      float64   `json:"weight"`
	Candidate   float64   `json:"candidate"`
	Previous    float64   `json:"previous"`
	HadPrevious bool      `json:"had_previous"`

	// Memo references the live table; it is only stable during Trace.
	Memo *MemoView `json:"-"`
}

// Tracer receives sweep events in evaluation order. Trace is called
// synchronously from the solving goroutine; it must not retain e.Memo.
type Tracer interface {
	Trace(e Event)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(e Event)

// Trace calls f(e).
func (f TracerFunc) Trace(e Event) { f(e) }

// NopTracer discards every event.
type NopTracer struct{}

// Trace does nothing.
func (NopTracer) Trace(Event) {}

// MultiTracer fans events out to several tracers in order.
type MultiTracer []Tracer

// Trace forwards e to every non-nil member.
func (m MultiTracer) Trace(e Event) {
	for _, t := range m {
		if t != nil {
			t.Trace(e)
		}
	}
}

// Recorder collects events in memory. With Snapshots set it also stores an
// immutable copy of the memo table after each event in Frames, aligned with
// Events by index.
type Recorder struct {
	Snapshots bool
	Events    []Event
	Frames    [][]State
}

// Trace appends e (without its live Memo reference).
func (r *Recorder) Trace(e Event) {
	if r.Snapshots && e.Memo != nil {
		r.Frames = append(r.Frames, e.Memo.Snapshot())
	}
	e.Memo = nil
	r.Events = append(r.Events, e)
}

// Count returns how many recorded events have kind k.
func (r *Recorder) Count(k EventKind) int {
	var c int
	for i := range r.Events {
		if r.Events[i].Kind == k {
			c++
		}
	}

	return c
}

// LoggingTracer writes each event to Logger at debug level (attempts) or
// info level (improvements and closing candidates).
type LoggingTracer struct {
	Logger *log.Logger
	// N is the number of cities, used to pad masks; 0 prints them unpadded.
	N int
}

// Trace logs e.
func (t LoggingTracer) Trace(e Event) {
	l := t.Logger
	if l == nil {
		l = log.Default()
	}
	kv := []interface{}{
		"seq", e.Seq,
		"mask", e.Mask.Format(t.N),
		"last", e.Last,
		"next", e.Next,
		"candidate", e.Candidate,
	}
	if e.HadPrevious {
		kv = append(kv, "previous", e.Previous)
	}
	switch e.Kind {
	case EventAttempt:
		l.Debug("relax", kv...)
	default:
		l.Info(e.Kind.String(), kv...)
	}
}
