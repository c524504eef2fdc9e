package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/pulse"
)

// TraceSnapshot captures the complete outcome of a scenario execution
// for golden comparison: totals plus the full delivery transcript.
type TraceSnapshot struct {
	Scenario string              `json:"scenario"`
	RunToken string              `json:"run_token"`
	Presses  int64               `json:"presses"`
	Counter  pulse.Counter       `json:"counter"`
	Product  int64               `json:"product"`
	Trace    []engine.TraceEvent `json:"trace"`
}

// RunWithGolden executes a scenario and compares the outcome against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files serve as the source of truth for expected traces; a
// scenario used here should set trace: true, or the snapshot records
// only the totals.
//
// Returns an error if scenario execution fails. Test failure (via
// goldie) occurs when the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result against the golden
// file for name. Useful when the caller wants the result for further
// assertions beyond the snapshot.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		Scenario: result.Scenario,
		RunToken: result.RunToken,
		Presses:  result.Presses,
		Counter:  result.Counter,
		Product:  result.Product,
		Trace:    result.Trace,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
