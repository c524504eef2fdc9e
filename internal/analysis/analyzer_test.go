package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/cache"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/netlist"
	"github.com/roach88/pulsenet/internal/pulse"
)

const chainNet = `broadcaster -> a, b, c
%a -> b
%b -> c
%c -> inv
&inv -> a
`

const counterNet = `broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> output
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAnalyzer(t *testing.T, description string, opts ...Option) (*Analyzer, *netlist.Network) {
	t.Helper()
	net, err := netlist.ParseString(description)
	require.NoError(t, err)
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(net, opts...), net
}

func moduleID(t *testing.T, net *netlist.Network, name string) netlist.ModuleID {
	t.Helper()
	id, ok := net.ModuleByName(name)
	require.True(t, ok, "module %q not found", name)
	return id
}

func TestAnalyzer_RootBroadcasterSchedule(t *testing.T) {
	a, net := newTestAnalyzer(t, counterNet)

	s, err := a.Schedule(context.Background(), net.Broadcaster())
	require.NoError(t, err)

	assert.Equal(t, int64(1), s.Period)
	assert.Equal(t, []pulse.At{{Offset: 0, Pulse: pulse.Low}}, s.Events,
		"the bootstrap Low arrives once per press")
}

func TestAnalyzer_FlipFlopAlternates(t *testing.T) {
	a, net := newTestAnalyzer(t, counterNet)

	// Module a toggles every press: High on the first, Low on the
	// second. One Low per parent period is odd, so the period doubles.
	s, err := a.Schedule(context.Background(), moduleID(t, net, "a"))
	require.NoError(t, err)

	assert.Equal(t, int64(2), s.Period)
	assert.Equal(t, []pulse.At{
		{Offset: 0, Pulse: pulse.High},
		{Offset: 1, Pulse: pulse.Low},
	}, s.Events)
}

func TestAnalyzer_SlowFlipFlopHalvesAgain(t *testing.T) {
	a, net := newTestAnalyzer(t, counterNet)

	// Module b is fed by inv, which lowers once per two presses, so b
	// runs at a quarter of the press rate.
	s, err := a.Schedule(context.Background(), moduleID(t, net, "b"))
	require.NoError(t, err)

	assert.Equal(t, int64(4), s.Period)
	assert.Equal(t, []pulse.At{
		{Offset: 0, Pulse: pulse.High},
		{Offset: 2, Pulse: pulse.Low},
	}, s.Events)
}

func TestAnalyzer_ConjunctionReplay(t *testing.T) {
	a, net := newTestAnalyzer(t, counterNet)

	s, err := a.Schedule(context.Background(), moduleID(t, net, "con"))
	require.NoError(t, err)

	require.Equal(t, int64(4), s.Period)
	want := []pulse.At{
		{Offset: 0, Pulse: pulse.High},
		{Offset: 0, Pulse: pulse.Low},
		{Offset: 1, Pulse: pulse.High},
		{Offset: 2, Pulse: pulse.Low},
		{Offset: 2, Pulse: pulse.High},
		{Offset: 3, Pulse: pulse.High},
	}
	assert.Equal(t, want, s.Events,
		"equal-offset events stay in emission order, not re-sorted")
}

func TestAnalyzer_SinkRelaysParents(t *testing.T) {
	a, net := newTestAnalyzer(t, counterNet)
	ctx := context.Background()

	con, err := a.Schedule(ctx, moduleID(t, net, "con"))
	require.NoError(t, err)
	sink, err := a.Schedule(ctx, net.Sink())
	require.NoError(t, err)

	assert.Equal(t, con, sink)
}

func TestAnalyzer_ScheduleMatchesSimulatedTrace(t *testing.T) {
	// The reconstructed schedule of con must equal what the simulator
	// actually delivers from con over one full period.
	a, net := newTestAnalyzer(t, counterNet)
	s, err := a.Schedule(context.Background(), moduleID(t, net, "con"))
	require.NoError(t, err)

	trace := engine.NewTrace()
	sim := engine.NewSimulator(net, engine.WithTrace(trace), engine.WithLogger(quietLogger()))
	for i := int64(0); i < s.Period; i++ {
		sim.Press()
	}

	var observed []pulse.At
	for _, e := range trace.Events() {
		if e.From == "con" {
			observed = append(observed, pulse.At{Offset: e.Press - 1, Pulse: e.Pulse})
		}
	}
	assert.Equal(t, s.Events, observed)
	assert.True(t, sim.InInitialState(),
		"one reconstructed period must return the network to its initial state")
}

func TestAnalyzer_FirstPress(t *testing.T) {
	a, net := newTestAnalyzer(t, counterNet)
	ctx := context.Background()

	press, err := a.FirstPress(ctx, moduleID(t, net, "output"), pulse.Low)
	require.NoError(t, err)
	assert.Equal(t, int64(1), press)

	press, err = a.FirstPress(ctx, moduleID(t, net, "b"), pulse.Low)
	require.NoError(t, err)
	assert.Equal(t, int64(3), press, "offsets are 0-indexed, presses 1-indexed")
}

func TestAnalyzer_FirstPressNoPulse(t *testing.T) {
	a, net := newTestAnalyzer(t, "broadcaster -> out")

	_, err := a.FirstPress(context.Background(), moduleID(t, net, "out"), pulse.High)

	require.Error(t, err)
	assert.True(t, IsNoPulseError(err))
	assert.False(t, IsCycleError(err))
	assert.Contains(t, err.Error(), "NO_PULSE")
}

func TestAnalyzer_FeedbackCycleError(t *testing.T) {
	a, net := newTestAnalyzer(t, "broadcaster -> a\n&a -> b\n&b -> a")

	_, err := a.Schedule(context.Background(), moduleID(t, net, "a"))

	require.Error(t, err)
	require.True(t, IsCycleError(err))

	var ae *AnalysisError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "a", ae.Module)
	assert.Equal(t, []string{"a", "b"}, ae.Path)
}

func TestAnalyzer_ChainNetworkHasFeedback(t *testing.T) {
	// The chain network loops inv back into a; its schedules are not
	// reconstructible and must say so instead of recursing forever.
	a, net := newTestAnalyzer(t, chainNet)

	_, err := a.Schedule(context.Background(), moduleID(t, net, "a"))

	require.Error(t, err)
	assert.True(t, IsCycleError(err))

	var ae *AnalysisError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, []string{"a", "inv", "c", "b"}, ae.Path)
}

func TestAnalyzer_CycleDoesNotPoisonSiblings(t *testing.T) {
	// One query hitting a cycle must not corrupt the analyzer for
	// queries that avoid the loop.
	a, net := newTestAnalyzer(t, "broadcaster -> a, ok\n&a -> b\n&b -> a\n%ok -> out")
	ctx := context.Background()

	_, err := a.Schedule(ctx, moduleID(t, net, "a"))
	require.Error(t, err)

	s, err := a.Schedule(ctx, moduleID(t, net, "ok"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Period)
}

// countingCache wraps a ScheduleCache and counts operations.
type countingCache struct {
	inner cache.ScheduleCache
	gets  int
	hits  int
	puts  int
}

func (c *countingCache) Get(ctx context.Context, network, module string) (cache.Record, bool, error) {
	c.gets++
	rec, ok, err := c.inner.Get(ctx, network, module)
	if ok {
		c.hits++
	}
	return rec, ok, err
}

func (c *countingCache) Put(ctx context.Context, network, module string, rec cache.Record) error {
	c.puts++
	return c.inner.Put(ctx, network, module, rec)
}

func TestAnalyzer_MemoizesWithinInstance(t *testing.T) {
	counting := &countingCache{inner: cache.Memory()}
	a, net := newTestAnalyzer(t, counterNet, WithCache(counting))
	ctx := context.Background()

	_, err := a.Schedule(ctx, net.Sink())
	require.NoError(t, err)
	putsAfterFirst := counting.puts
	assert.Equal(t, 6, putsAfterFirst, "one put per module on the dependency path")

	_, err = a.Schedule(ctx, net.Sink())
	require.NoError(t, err)
	_, err = a.FirstPress(ctx, moduleID(t, net, "con"), pulse.Low)
	require.NoError(t, err)

	assert.Equal(t, putsAfterFirst, counting.puts, "memo hits skip the cache entirely")
}

func TestAnalyzer_SharedCacheSkipsRecomputation(t *testing.T) {
	shared := cache.Memory()
	ctx := context.Background()

	first, net1 := newTestAnalyzer(t, counterNet, WithCache(shared))
	want, err := first.Schedule(ctx, net1.Sink())
	require.NoError(t, err)

	counting := &countingCache{inner: shared}
	second, net2 := newTestAnalyzer(t, counterNet, WithCache(counting))
	got, err := second.Schedule(ctx, net2.Sink())
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 1, counting.gets, "the sink hit terminates the walk")
	assert.Equal(t, 1, counting.hits)
	assert.Zero(t, counting.puts)
}

// failingCache errors on every operation.
type failingCache struct{}

func (failingCache) Get(context.Context, string, string) (cache.Record, bool, error) {
	return cache.Record{}, false, errors.New("disk on fire")
}

func (failingCache) Put(context.Context, string, string, cache.Record) error {
	return errors.New("disk on fire")
}

func TestAnalyzer_CacheFailuresDegradeToCompute(t *testing.T) {
	a, net := newTestAnalyzer(t, counterNet, WithCache(failingCache{}))

	press, err := a.FirstPress(context.Background(), moduleID(t, net, "output"), pulse.Low)

	require.NoError(t, err, "cache trouble must never fail an analysis")
	assert.Equal(t, int64(1), press)
}
