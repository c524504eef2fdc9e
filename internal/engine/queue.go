package engine

import (
	"github.com/roach88/pulsenet/internal/netlist"
	"github.com/roach88/pulsenet/internal/pulse"
)

// Event is one pulse in flight from a source module to a target module.
type Event struct {
	From  netlist.ModuleID
	To    netlist.ModuleID
	Pulse pulse.Pulse
}

// eventQueue is the FIFO dispatch queue for pulses in flight.
//
// The queue is unbounded: a single press can cascade into arbitrarily
// many emissions and none of them may block. It is owned by the
// simulator's drain loop and touched by exactly one goroutine, so there
// is no locking.
type eventQueue struct {
	events []Event
}

// newEventQueue creates an empty queue.
func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 64), // Pre-allocate for typical fan-out
	}
}

// push appends an event to the back of the queue.
func (q *eventQueue) push(from, to netlist.ModuleID, p pulse.Pulse) {
	q.events = append(q.events, Event{From: from, To: to, Pulse: p})
}

// pop removes and returns the front event.
// Returns (Event{}, false) if the queue is empty.
func (q *eventQueue) pop() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]

	// Reset when drained so the backing array's capacity is reused
	// across presses instead of sliding forward until reallocation.
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// len returns the number of queued events.
func (q *eventQueue) len() int {
	return len(q.events)
}
