// Package harness provides scenario-based conformance testing for the
// pulse network simulator.
//
// The harness loads network scenarios, runs them with deterministic run
// tokens, and checks pulse totals, schedule queries, and golden traces.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	network: |
//	  broadcaster -> a
//	  %a -> inv, con
//	  &inv -> b
//	  %b -> con
//	  &con -> output
//	presses: 1000
//	run_token: "test-run-00000000-0000-0000-0000-000000000001"
//	trace: false
//	expect:
//	  low: 4250
//	  high: 2750
//	  product: 11687500
//	queries:
//	  - module: output
//	    pulse: low
//	    press: 1
//
// The network may also be kept in its own file and referenced with
// network_file (resolved relative to the scenario file):
//
//	network_file: networks/counter.txt
//
// # Expectations
//
// The expect clause checks the run's pulse totals. It is a subset
// match: only the fields present are validated, so a scenario may pin
// just the product, or just the low count.
//
// Each query asks the periodicity analyzer for the first press on
// which a module emits the given pulse. When the query carries a press
// field, the answer must match it; without one, the query only has to
// succeed and its answer is reported in the result.
//
// # Deterministic Testing
//
// All scenarios execute with fixed run tokens so results and traces
// are reproducible across runs.
//
// The harness uses:
//   - Fixed run tokens (from scenario.run_token, defaulting to
//     "test-run-default")
//   - Full traces (trace: true) for golden snapshot comparison
//
// A traced run records every delivered pulse, which also pins the
// simulator to pressing every press instead of extrapolating from a
// detected recurrence.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/counter.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute it:
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
