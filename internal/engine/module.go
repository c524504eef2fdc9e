package engine

import (
	"fmt"

	"github.com/roach88/pulsenet/internal/netlist"
	"github.com/roach88/pulsenet/internal/pulse"
)

// moduleState is the mutable behavior state layered over one immutable
// graph node for the duration of a simulation. The variant set is
// closed; receive dispatches exhaustively on the kind.
type moduleState struct {
	id      netlist.ModuleID
	kind    netlist.Kind
	outputs []netlist.ModuleID

	// Flip-flop: the pulse it will emit on its next toggle output.
	// Low means off. Untouched for other kinds.
	state pulse.Pulse

	// Conjunction: last pulse remembered per registered input, plus a
	// running count of inputs currently remembered High so the
	// all-high check is O(1) per delivery. Nil for other kinds.
	memory    map[netlist.ModuleID]pulse.Pulse
	highCount int
}

// newModuleState derives fresh behavior state from a graph node.
// Conjunction memory registers every input edge as Low, in discovery
// order, before any pulse flows.
func newModuleState(m netlist.Module) *moduleState {
	s := &moduleState{id: m.ID, kind: m.Kind, outputs: m.Outputs}
	if m.Kind == netlist.KindConjunction {
		s.memory = make(map[netlist.ModuleID]pulse.Pulse, len(m.Inputs))
		for _, in := range m.Inputs {
			if _, dup := s.memory[in]; dup {
				panic(fmt.Sprintf("conjunction %d: input %d registered twice", m.ID, in))
			}
			s.memory[in] = pulse.Low
		}
	}
	return s
}

// receive reacts to one delivered pulse, appending any emissions to the
// queue in declared output order.
func (s *moduleState) receive(from netlist.ModuleID, p pulse.Pulse, q *eventQueue) {
	switch s.kind {
	case netlist.KindBroadcaster:
		s.emit(p, q)

	case netlist.KindFlipFlop:
		if p == pulse.High {
			return
		}
		s.state = s.state.Invert()
		s.emit(s.state, q)

	case netlist.KindConjunction:
		prev, registered := s.memory[from]
		if !registered {
			panic(fmt.Sprintf("conjunction %d: pulse from unregistered input %d", s.id, from))
		}
		if prev != p {
			s.memory[from] = p
			if p == pulse.High {
				s.highCount++
			} else {
				s.highCount--
			}
		}
		// Memory updates first, then the all-high check decides the
		// emission: Low iff every registered input is remembered High.
		out := pulse.High
		if s.highCount == len(s.memory) {
			out = pulse.Low
		}
		s.emit(out, q)
	}
}

func (s *moduleState) emit(p pulse.Pulse, q *eventQueue) {
	for _, out := range s.outputs {
		q.push(s.id, out, p)
	}
}

// inInitialState reports whether the module is back where construction
// left it: flip-flops off, conjunction memory all Low. Broadcasters are
// stateless and always initial.
func (s *moduleState) inInitialState() bool {
	switch s.kind {
	case netlist.KindFlipFlop:
		return s.state == pulse.Low
	case netlist.KindConjunction:
		return s.highCount == 0
	default:
		return true
	}
}
