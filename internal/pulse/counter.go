package pulse

// Counter accumulates pulse delivery totals for a simulation run.
// Counts are incremented when an event is delivered to its target,
// not when it is enqueued.
type Counter struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// Observe records a single delivered pulse.
func (c *Counter) Observe(p Pulse) {
	if p == High {
		c.High++
	} else {
		c.Low++
	}
}

// Add returns the element-wise sum of two counters.
func (c Counter) Add(other Counter) Counter {
	return Counter{
		Low:  c.Low + other.Low,
		High: c.High + other.High,
	}
}

// Scale returns the counter with both totals multiplied by n.
// Used to extrapolate a full recurrence cycle over many repeats.
func (c Counter) Scale(n int64) Counter {
	return Counter{
		Low:  c.Low * n,
		High: c.High * n,
	}
}

// Product is the summary score for a run: low total times high total.
func (c Counter) Product() int64 {
	return c.Low * c.High
}
