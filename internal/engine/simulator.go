package engine

import (
	"log/slog"

	"github.com/roach88/pulsenet/internal/netlist"
	"github.com/roach88/pulsenet/internal/pulse"
)

// Simulator drives button presses through a network and accumulates
// delivered pulse counts. It layers mutable module state over the
// immutable graph; several simulators can share one Network.
//
// All methods must be called from a single goroutine.
type Simulator struct {
	net    *netlist.Network
	states []*moduleState
	queue  *eventQueue

	counter pulse.Counter
	presses int64
	seq     int64

	trace     *Trace
	tokens    RunTokenGenerator
	lastToken string
	logger    *slog.Logger
}

// SimulatorOption configures a Simulator at construction.
type SimulatorOption func(*Simulator)

// WithTrace attaches a trace that records every delivered event.
// A traced simulator never takes the recurrence shortcut in Run, so the
// trace is a complete transcript of all requested presses.
func WithTrace(t *Trace) SimulatorOption {
	return func(s *Simulator) {
		s.trace = t
	}
}

// WithRunTokens overrides the run token generator. Tests and harness
// scenarios inject fixed tokens for byte-identical output.
func WithRunTokens(g RunTokenGenerator) SimulatorOption {
	return func(s *Simulator) {
		s.tokens = g
	}
}

// WithLogger overrides the logger, which defaults to slog.Default().
func WithLogger(l *slog.Logger) SimulatorOption {
	return func(s *Simulator) {
		s.logger = l
	}
}

// NewSimulator creates a simulator over the given network with every
// module in its initial state.
func NewSimulator(net *netlist.Network, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		net:    net,
		queue:  newEventQueue(),
		tokens: UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.states = deriveStates(net)
	return s
}

func deriveStates(net *netlist.Network) []*moduleState {
	states := make([]*moduleState, net.Len())
	for _, m := range net.Modules() {
		states[m.ID] = newModuleState(m)
	}
	return states
}

// Press simulates one button press: the bootstrap Low is enqueued
// addressed to the root broadcaster, then the queue is drained to
// quiescence. The bootstrap is recorded as an emission of the
// broadcaster to itself.
func (s *Simulator) Press() {
	s.presses++
	b := s.net.Broadcaster()
	s.queue.push(b, b, pulse.Low)
	s.drain()
}

func (s *Simulator) drain() {
	for {
		e, ok := s.queue.pop()
		if !ok {
			return
		}
		s.seq++
		s.counter.Observe(e.Pulse)
		if s.trace != nil {
			s.trace.record(TraceEvent{
				Press: s.presses,
				Seq:   s.seq,
				From:  s.net.Module(e.From).Name,
				To:    s.net.Module(e.To).Name,
				Pulse: e.Pulse,
			})
		}
		s.states[e.To].receive(e.From, e.Pulse, s.queue)
	}
}

// Run resets the simulator and simulates n presses, returning the
// accumulated counter.
//
// Untraced runs watch for state recurrence: once every module is back
// in its initial state the per-cycle counts simply repeat, so the
// remaining whole cycles are added arithmetically and only the
// remainder is simulated. Traced runs simulate every press.
func (s *Simulator) Run(n int64) pulse.Counter {
	s.Reset()
	s.lastToken = s.tokens.Generate()
	s.logger.Info("run starting",
		"run_token", s.lastToken,
		"presses", n)

	var pressed int64
	for pressed < n {
		s.Press()
		pressed++
		if s.trace == nil && s.InInitialState() {
			break
		}
	}

	total := s.counter
	if pressed > 0 && pressed < n {
		// State recurred after `pressed` presses; the counter now holds
		// exactly one cycle. Simulate the remainder and add the skipped
		// whole cycles on top.
		cycle := s.counter
		cycles := n / pressed
		rem := n - cycles*pressed
		s.logger.Debug("recurrence detected",
			"run_token", s.lastToken,
			"cycle_presses", pressed,
			"whole_cycles", cycles,
			"remainder", rem)
		for i := int64(0); i < rem; i++ {
			s.Press()
		}
		total = s.counter.Add(cycle.Scale(cycles - 1))
	}

	s.logger.Info("run complete",
		"run_token", s.lastToken,
		"presses", n,
		"low", total.Low,
		"high", total.High)
	return total
}

// Reset returns every module to its initial state and zeroes the
// counter, press count, logical clock, and any attached trace.
func (s *Simulator) Reset() {
	s.states = deriveStates(s.net)
	s.queue = newEventQueue()
	s.counter = pulse.Counter{}
	s.presses = 0
	s.seq = 0
	if s.trace != nil {
		s.trace.reset()
	}
}

// InInitialState reports whether every module is in its initial state.
// Trivially true before the first press; true again whenever the
// network's state recurs.
func (s *Simulator) InInitialState() bool {
	for _, st := range s.states {
		if !st.inInitialState() {
			return false
		}
	}
	return true
}

// Counter returns the pulse totals delivered so far. After Run it holds
// the simulated portion only; use Run's return value for the
// extrapolated total.
func (s *Simulator) Counter() pulse.Counter {
	return s.counter
}

// Presses returns the number of presses actually simulated.
func (s *Simulator) Presses() int64 {
	return s.presses
}

// RunToken returns the correlation token of the most recent Run, or ""
// if Run has not been called.
func (s *Simulator) RunToken() string {
	return s.lastToken
}
