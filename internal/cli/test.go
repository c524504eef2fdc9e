package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario suite",
		Long: `Run YAML scenario files against the simulator.

Each scenario describes a network, a press count, and expectations on
the pulse totals or on first-press queries. A scenario passes when
every expectation holds; the suite keeps going past failures and
reports them all.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing directory, bad filter)

Examples:
  pulsenet test ./scenarios
  pulsenet test ./scenarios --filter "counter-*"
  pulsenet test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	paths, err := harness.DiscoverScenarios(scenariosDir)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}

	paths, err = filterScenarios(paths, opts.Filter)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}

	if len(paths) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, &harness.SuiteResult{Scenarios: []harness.ScenarioOutcome{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	suite := harness.RunSuite(paths)

	if opts.Format == "json" {
		return outputTestJSON(cmd, suite)
	}
	return outputTestText(cmd, suite)
}

// filterScenarios keeps paths whose base name without extension matches
// the glob pattern. An empty pattern keeps everything.
func filterScenarios(paths []string, pattern string) ([]string, error) {
	if pattern == "" {
		return paths, nil
	}

	var kept []string
	for _, path := range paths {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			kept = append(kept, path)
		}
	}
	return kept, nil
}

// outputTestJSON outputs the suite result as JSON.
func outputTestJSON(cmd *cobra.Command, suite *harness.SuiteResult) error {
	status := "ok"
	if suite.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   suite,
	}

	if suite.Failed > 0 {
		response.Error = &CLIError{
			Code:    ErrCodeTestFail,
			Message: fmt.Sprintf("%d scenario(s) failed", suite.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if suite.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", suite.Failed))
	}
	return nil
}

// outputTestText outputs the suite result as text.
func outputTestText(cmd *cobra.Command, suite *harness.SuiteResult) error {
	w := cmd.OutOrStdout()

	for _, outcome := range suite.Scenarios {
		name := outcome.Scenario
		if name == "" {
			name = filepath.Base(outcome.Path)
		}
		if outcome.Pass {
			fmt.Fprintf(w, "✓ %s\n", name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", name)
		for _, e := range outcome.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", suite.Passed, suite.Failed, suite.Total)

	if suite.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", suite.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
