package analysis

import (
	"fmt"
	"sort"

	"github.com/roach88/pulsenet/internal/pulse"
)

// Schedule describes a module's periodic emissions: the pulses it sends
// within one period of presses, and the period length. Offsets are
// 0-indexed presses and non-decreasing; equal-offset events appear in
// emission order.
//
// An empty event list is a valid schedule: the module never pulses.
type Schedule struct {
	Events []pulse.At
	Period int64
}

// ExtendTo stretches the schedule to a longer period that must be a
// whole multiple of the current one. The event list is repeated with
// each copy shifted by one source period, preserving relative offsets.
// Panics on a non-multiple target; callers extend to an LCM they
// computed from this schedule's period.
func (s Schedule) ExtendTo(target int64) Schedule {
	if s.Period <= 0 || target%s.Period != 0 {
		panic(fmt.Sprintf("cannot extend period %d to %d", s.Period, target))
	}
	repeats := target / s.Period
	events := make([]pulse.At, 0, len(s.Events)*int(repeats))
	for r := int64(0); r < repeats; r++ {
		shift := r * s.Period
		for _, e := range s.Events {
			events = append(events, pulse.At{Offset: e.Offset + shift, Pulse: e.Pulse})
		}
	}
	return Schedule{Events: events, Period: target}
}

// Merge combines schedules into one over the least common multiple of
// their periods. Every source is extended to the combined period, then
// events are interleaved in offset order (ties High first, then source
// order). Merging nothing yields the silent period-1 schedule.
func Merge(schedules ...Schedule) Schedule {
	if len(schedules) == 0 {
		return Schedule{Period: 1}
	}

	period := int64(1)
	for _, s := range schedules {
		period = lcm(period, s.Period)
	}

	total := 0
	for _, s := range schedules {
		total += len(s.Events) * int(period/s.Period)
	}
	events := make([]pulse.At, 0, total)
	for _, s := range schedules {
		events = append(events, s.ExtendTo(period).Events...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Before(events[j])
	})
	return Schedule{Events: events, Period: period}
}

// filterPulse keeps only events carrying p, with the period unchanged.
func (s Schedule) filterPulse(p pulse.Pulse) Schedule {
	events := make([]pulse.At, 0, len(s.Events))
	for _, e := range s.Events {
		if e.Pulse == p {
			events = append(events, e)
		}
	}
	return Schedule{Events: events, Period: s.Period}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}
