package engine

import (
	"fmt"

	"github.com/roach88/pulsenet/internal/pulse"
)

// TraceEvent is one delivered pulse, stamped with the press that caused
// it and its position in the run's delivery order. Seq is a logical
// clock across the whole run, never wall time.
type TraceEvent struct {
	Press int64       `json:"press"`
	Seq   int64       `json:"seq"`
	From  string      `json:"from"`
	To    string      `json:"to"`
	Pulse pulse.Pulse `json:"pulse"`
}

// String renders the event in transcript form: "broadcaster -low-> a".
func (e TraceEvent) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.From, e.Pulse, e.To)
}

// Trace captures every delivered event of a run, in delivery order.
// Attach one with WithTrace; a traced simulator never extrapolates, so
// the trace is always a complete transcript.
type Trace struct {
	events []TraceEvent
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Events returns the recorded events in delivery order. The slice is
// owned by the trace; callers must not mutate it.
func (t *Trace) Events() []TraceEvent {
	return t.events
}

// Len returns the number of recorded events.
func (t *Trace) Len() int {
	return len(t.events)
}

func (t *Trace) record(e TraceEvent) {
	t.events = append(t.events, e)
}

func (t *Trace) reset() {
	t.events = t.events[:0]
}
