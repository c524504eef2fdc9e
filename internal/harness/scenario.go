package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pulsenet/internal/pulse"
)

// Scenario defines a conformance test scenario.
// Scenarios run a network for a number of presses and assert on the
// resulting pulse totals and on periodicity analyzer answers.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Network is the network description in netlist form.
	// Exactly one of Network and NetworkFile must be set.
	Network string `yaml:"network,omitempty"`

	// NetworkFile references a netlist file, resolved relative to the
	// scenario file location. LoadScenario reads it into Network.
	NetworkFile string `yaml:"network_file,omitempty"`

	// Presses is the number of button presses to simulate.
	Presses int64 `yaml:"presses"`

	// RunToken is an optional fixed run token for deterministic tests.
	// If empty, defaults to "test-run-default" for deterministic golden
	// file comparison. Production scenarios should specify an explicit
	// token for traceability.
	RunToken string `yaml:"run_token,omitempty"`

	// Trace records every delivered pulse in the result. Traced runs
	// press every press; they never shortcut via recurrence detection.
	Trace bool `yaml:"trace,omitempty"`

	// Expect checks the run's pulse totals (subset match).
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Queries ask the analyzer for first-press answers.
	Queries []Query `yaml:"queries,omitempty"`
}

// ExpectClause specifies expected pulse totals for a run.
// Only the fields present are validated.
type ExpectClause struct {
	// Low is the expected total of delivered low pulses.
	Low *int64 `yaml:"low,omitempty"`

	// High is the expected total of delivered high pulses.
	High *int64 `yaml:"high,omitempty"`

	// Product is the expected low*high product.
	Product *int64 `yaml:"product,omitempty"`
}

// Query asks when a module first emits a pulse.
type Query struct {
	// Module is the module name to analyze.
	Module string `yaml:"module"`

	// Pulse is the pulse to look for: "low" or "high".
	Pulse string `yaml:"pulse"`

	// Press is the expected 1-indexed press. If nil, the query only has
	// to succeed and its answer is reported without being checked.
	Press *int64 `yaml:"press,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like
	// "querys:" vs "queries:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve a referenced network file relative to the scenario file
	// BEFORE validation, so validation sees the final network text.
	if scenario.NetworkFile != "" {
		if scenario.Network != "" {
			return nil, fmt.Errorf("invalid scenario: network and network_file are mutually exclusive")
		}
		netPath := scenario.NetworkFile
		if !filepath.IsAbs(netPath) {
			netPath = filepath.Join(filepath.Dir(path), netPath)
		}
		netData, err := os.ReadFile(netPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read network file: %w", err)
		}
		scenario.Network = string(netData)
		scenario.NetworkFile = ""
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Network == "" {
		return fmt.Errorf("network or network_file is required")
	}

	if s.Presses < 0 {
		return fmt.Errorf("presses must be non-negative")
	}

	if s.Expect == nil && len(s.Queries) == 0 {
		return fmt.Errorf("expect or queries is required (a scenario must check something)")
	}

	if s.Expect != nil {
		if s.Expect.Low == nil && s.Expect.High == nil && s.Expect.Product == nil {
			return fmt.Errorf("expect: at least one of low, high, product is required")
		}
	}

	for i, q := range s.Queries {
		if q.Module == "" {
			return fmt.Errorf("queries[%d]: module is required", i)
		}
		if _, err := pulse.Parse(q.Pulse); err != nil {
			return fmt.Errorf("queries[%d]: %w", i, err)
		}
		if q.Press != nil && *q.Press < 1 {
			return fmt.Errorf("queries[%d]: press must be positive (presses are 1-indexed)", i)
		}
	}

	return nil
}
