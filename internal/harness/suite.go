package harness

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SuiteResult aggregates the outcomes of a batch of scenarios.
type SuiteResult struct {
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Scenarios []ScenarioOutcome `json:"scenarios"`
}

// ScenarioOutcome is the outcome of one scenario in a suite.
// Scenario is empty when the file could not even be loaded.
type ScenarioOutcome struct {
	Scenario string   `json:"scenario,omitempty"`
	Path     string   `json:"path"`
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
}

// Pass reports whether every scenario in the suite passed.
func (s *SuiteResult) Pass() bool {
	return s.Failed == 0
}

// DiscoverScenarios walks dir for scenario YAML files, sorted by path
// for deterministic suite order.
func DiscoverScenarios(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenario path %s is not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenario directory: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// RunSuite loads and runs every scenario path, collecting outcomes
// instead of aborting at the first failure. A scenario that fails to
// load or run counts as failed, with the error on its outcome.
func RunSuite(paths []string) *SuiteResult {
	suite := &SuiteResult{
		Total:     len(paths),
		Scenarios: make([]ScenarioOutcome, 0, len(paths)),
	}

	for _, path := range paths {
		outcome := runOne(path)
		suite.Scenarios = append(suite.Scenarios, outcome)
		if outcome.Pass {
			suite.Passed++
		} else {
			suite.Failed++
		}
	}

	return suite
}

func runOne(path string) ScenarioOutcome {
	scenario, err := LoadScenario(path)
	if err != nil {
		return ScenarioOutcome{
			Path:   path,
			Errors: []string{err.Error()},
		}
	}

	result, err := Run(scenario)
	if err != nil {
		return ScenarioOutcome{
			Scenario: scenario.Name,
			Path:     path,
			Errors:   []string{err.Error()},
		}
	}

	return ScenarioOutcome{
		Scenario: scenario.Name,
		Path:     path,
		Pass:     result.Pass,
		Errors:   result.Errors,
	}
}
