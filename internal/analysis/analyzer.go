package analysis

import (
	"context"
	"log/slog"
	"sort"

	"github.com/roach88/pulsenet/internal/cache"
	"github.com/roach88/pulsenet/internal/netlist"
	"github.com/roach88/pulsenet/internal/pulse"
)

// Analyzer reconstructs module schedules over one network. It memoizes
// per instance and optionally persists results through a ScheduleCache
// keyed by the network's fingerprint.
//
// An analyzer must be used from a single goroutine; build one per
// network and ask it as many questions as you like.
type Analyzer struct {
	net         *netlist.Network
	fingerprint string

	memo   map[netlist.ModuleID]Schedule
	active map[netlist.ModuleID]bool
	path   []string

	cache  cache.ScheduleCache
	logger *slog.Logger
}

// Option configures an Analyzer at construction.
type Option func(*Analyzer)

// WithCache persists computed schedules through c and consults it
// before recursing. Cache failures degrade to recomputation with a
// warning; they never fail an analysis.
func WithCache(c cache.ScheduleCache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger overrides the logger, which defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// New creates an analyzer for the given network.
func New(net *netlist.Network, opts ...Option) *Analyzer {
	a := &Analyzer{
		net:         net,
		fingerprint: net.Fingerprint(),
		memo:        make(map[netlist.ModuleID]Schedule),
		active:      make(map[netlist.ModuleID]bool),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Schedule reconstructs the emission schedule of one module. Results
// are memoized, so the recursion cost is paid once per module per
// analyzer regardless of how many queries follow.
//
// Re-entering a module already under analysis means the graph feeds the
// module's schedule back into itself; that returns a FEEDBACK_CYCLE
// AnalysisError naming the loop.
func (a *Analyzer) Schedule(ctx context.Context, id netlist.ModuleID) (Schedule, error) {
	if s, ok := a.memo[id]; ok {
		return s, nil
	}

	m := a.net.Module(id)
	if a.active[id] {
		return Schedule{}, newCycleError(m.Name, a.path)
	}

	if a.cache != nil {
		rec, ok, err := a.cache.Get(ctx, a.fingerprint, m.Name)
		if err != nil {
			a.logger.Warn("schedule cache read failed, recomputing",
				"module", m.Name,
				"error", err)
		} else if ok {
			s := Schedule{Events: rec.Events, Period: rec.Period}
			a.memo[id] = s
			return s, nil
		}
	}

	a.active[id] = true
	a.path = append(a.path, m.Name)
	s, err := a.compute(ctx, m)
	a.path = a.path[:len(a.path)-1]
	delete(a.active, id)
	if err != nil {
		return Schedule{}, err
	}

	a.memo[id] = s
	a.logger.Debug("schedule computed",
		"module", m.Name,
		"period", s.Period,
		"events", len(s.Events))
	if a.cache != nil {
		rec := cache.Record{Period: s.Period, Events: s.Events}
		if err := a.cache.Put(ctx, a.fingerprint, m.Name, rec); err != nil {
			a.logger.Warn("schedule cache write failed",
				"module", m.Name,
				"error", err)
		}
	}
	return s, nil
}

// FirstPress returns the 1-indexed press on which the module first
// emits p. For the synthetic sink this is also the press on which it
// first receives p, since a sink relays whatever reaches it.
//
// Returns a NO_PULSE AnalysisError if p never occurs in the module's
// period.
func (a *Analyzer) FirstPress(ctx context.Context, id netlist.ModuleID, p pulse.Pulse) (int64, error) {
	s, err := a.Schedule(ctx, id)
	if err != nil {
		return 0, err
	}
	// Events are in emission order with non-decreasing offsets, so the
	// first match carries the smallest offset.
	for _, e := range s.Events {
		if e.Pulse == p {
			return e.Offset + 1, nil
		}
	}
	return 0, newNoPulseError(a.net.Module(id).Name, p, s.Period)
}

func (a *Analyzer) compute(ctx context.Context, m netlist.Module) (Schedule, error) {
	switch m.Kind {
	case netlist.KindFlipFlop:
		parents, err := a.parentSchedules(ctx, m)
		if err != nil {
			return Schedule{}, err
		}
		lows := make([]Schedule, len(parents))
		for i, p := range parents {
			lows[i] = p.filterPulse(pulse.Low)
		}
		merged := Merge(lows...)
		// An odd toggle count per period leaves the flip-flop inverted,
		// so the true pattern spans two repeats.
		if len(merged.Events)%2 == 1 {
			merged = merged.ExtendTo(2 * merged.Period)
		}
		for i := range merged.Events {
			if i%2 == 0 {
				merged.Events[i].Pulse = pulse.High
			} else {
				merged.Events[i].Pulse = pulse.Low
			}
		}
		return merged, nil

	case netlist.KindConjunction:
		parents, err := a.parentSchedules(ctx, m)
		if err != nil {
			return Schedule{}, err
		}
		return replayConjunction(parents), nil

	default:
		// Broadcasters relay. Without inputs the only arrival is the
		// bootstrap Low, once per press.
		if len(m.Inputs) == 0 {
			return Schedule{
				Events: []pulse.At{{Offset: 0, Pulse: pulse.Low}},
				Period: 1,
			}, nil
		}
		parents, err := a.parentSchedules(ctx, m)
		if err != nil {
			return Schedule{}, err
		}
		return Merge(parents...), nil
	}
}

func (a *Analyzer) parentSchedules(ctx context.Context, m netlist.Module) ([]Schedule, error) {
	parents := make([]Schedule, len(m.Inputs))
	for i, in := range m.Inputs {
		s, err := a.Schedule(ctx, in)
		if err != nil {
			return nil, err
		}
		parents[i] = s
	}
	return parents, nil
}

// sourcedEvent is a merged event that remembers which parent it came
// from, for per-input conjunction memory.
type sourcedEvent struct {
	at     pulse.At
	source int
}

// replayConjunction merges parent schedules with source attribution and
// replays them against the memory rule: remember the sender's latest
// pulse first, then emit Low iff every parent is remembered High.
// Memory starts all Low at the top of each period.
func replayConjunction(parents []Schedule) Schedule {
	if len(parents) == 0 {
		return Schedule{Period: 1}
	}

	period := int64(1)
	for _, p := range parents {
		period = lcm(period, p.Period)
	}

	var merged []sourcedEvent
	for i, p := range parents {
		for _, e := range p.ExtendTo(period).Events {
			merged = append(merged, sourcedEvent{at: e, source: i})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].at != merged[j].at {
			return merged[i].at.Before(merged[j].at)
		}
		return merged[i].source < merged[j].source
	})

	memory := make([]pulse.Pulse, len(parents))
	highCount := 0
	events := make([]pulse.At, 0, len(merged))
	for _, ev := range merged {
		if memory[ev.source] != ev.at.Pulse {
			memory[ev.source] = ev.at.Pulse
			if ev.at.Pulse == pulse.High {
				highCount++
			} else {
				highCount--
			}
		}
		out := pulse.High
		if highCount == len(parents) {
			out = pulse.Low
		}
		events = append(events, pulse.At{Offset: ev.at.Offset, Pulse: out})
	}
	return Schedule{Events: events, Period: period}
}
