package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/pulsenet/internal/analysis"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/netlist"
	"github.com/roach88/pulsenet/internal/pulse"
	"github.com/roach88/pulsenet/internal/testutil"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if all expectations and queries match.
	Pass bool `json:"pass"`

	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// RunToken identifies the simulation run.
	RunToken string `json:"run_token"`

	// Presses is the number of simulated button presses.
	Presses int64 `json:"presses"`

	// Counter holds the delivered pulse totals.
	Counter pulse.Counter `json:"counter"`

	// Product is the low*high product.
	Product int64 `json:"product"`

	// Queries holds the analyzer's answer for each scenario query.
	Queries []QueryResult `json:"queries,omitempty"`

	// Trace contains every delivered pulse when the scenario asked for
	// one. Used for golden comparison.
	Trace []engine.TraceEvent `json:"trace,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// QueryResult is the analyzer's answer to one scenario query.
type QueryResult struct {
	Module string `json:"module"`
	Pulse  string `json:"pulse"`

	// Press is the first 1-indexed press on which the module emits the
	// pulse. Zero when the query failed.
	Press int64 `json:"press,omitempty"`

	// Error carries the analysis failure, if any.
	Error string `json:"error,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult(scenario string) *Result {
	return &Result{
		Pass:     true,
		Scenario: scenario,
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs a fresh simulator over its own parse of the
// network, so scenarios never share state. Deterministic run tokens
// keep results reproducible.
//
// Execution flow:
//  1. Parse the network
//  2. Simulate the requested presses (traced if the scenario asks)
//  3. Check expected pulse totals
//  4. Answer analyzer queries and check expected presses
func Run(scenario *Scenario) (*Result, error) {
	net, err := netlist.ParseString(scenario.Network)
	if err != nil {
		return nil, fmt.Errorf("failed to parse network: %w", err)
	}

	// Suppress logs in tests
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := []engine.SimulatorOption{
		engine.WithRunTokens(testutil.NewFixedTokenGenerator(scenario.RunToken)),
		engine.WithLogger(logger),
	}
	var trace *engine.Trace
	if scenario.Trace {
		trace = engine.NewTrace()
		opts = append(opts, engine.WithTrace(trace))
	}
	sim := engine.NewSimulator(net, opts...)

	counter := sim.Run(scenario.Presses)

	result := NewResult(scenario.Name)
	result.RunToken = sim.RunToken()
	result.Presses = scenario.Presses
	result.Counter = counter
	result.Product = counter.Product()
	if trace != nil {
		result.Trace = trace.Events()
	}

	checkExpectations(result, scenario.Expect)

	if len(scenario.Queries) > 0 {
		analyzer := analysis.New(net, analysis.WithLogger(logger))
		runQueries(context.Background(), result, analyzer, net, scenario.Queries)
	}

	return result, nil
}

// checkExpectations validates pulse totals against the expect clause.
// Subset semantics: only the fields present are checked.
func checkExpectations(result *Result, expect *ExpectClause) {
	if expect == nil {
		return
	}
	if expect.Low != nil && result.Counter.Low != *expect.Low {
		result.AddError(fmt.Sprintf("expected %d low pulses, counted %d", *expect.Low, result.Counter.Low))
	}
	if expect.High != nil && result.Counter.High != *expect.High {
		result.AddError(fmt.Sprintf("expected %d high pulses, counted %d", *expect.High, result.Counter.High))
	}
	if expect.Product != nil && result.Product != *expect.Product {
		result.AddError(fmt.Sprintf("expected pulse product %d, got %d", *expect.Product, result.Product))
	}
}

// runQueries answers each query through the analyzer and records the
// outcome on the result.
func runQueries(ctx context.Context, result *Result, analyzer *analysis.Analyzer, net *netlist.Network, queries []Query) {
	for _, q := range queries {
		qr := QueryResult{Module: q.Module, Pulse: q.Pulse}

		p, err := pulse.Parse(q.Pulse)
		if err != nil {
			qr.Error = err.Error()
			result.Queries = append(result.Queries, qr)
			result.AddError(fmt.Sprintf("query %s/%s: %v", q.Module, q.Pulse, err))
			continue
		}

		id, ok := net.ModuleByName(q.Module)
		if !ok {
			qr.Error = "module not found"
			result.Queries = append(result.Queries, qr)
			result.AddError(fmt.Sprintf("query %s/%s: module not found", q.Module, q.Pulse))
			continue
		}

		press, err := analyzer.FirstPress(ctx, id, p)
		if err != nil {
			qr.Error = err.Error()
			result.Queries = append(result.Queries, qr)
			result.AddError(fmt.Sprintf("query %s/%s: %v", q.Module, q.Pulse, err))
			continue
		}

		qr.Press = press
		result.Queries = append(result.Queries, qr)

		if q.Press != nil && press != *q.Press {
			result.AddError(fmt.Sprintf("query %s/%s: expected first press %d, got %d", q.Module, q.Pulse, *q.Press, press))
		}
	}
}
