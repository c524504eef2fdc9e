package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes scenario YAML to a temp file and returns its path.
func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test_scenario
description: "Counts pulses through a single flip-flop"
network: |
  broadcaster -> a
  %a -> out
presses: 10
run_token: "test-run-42"
expect:
  low: 25
queries:
  - module: a
    pulse: high
    press: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Counts pulses through a single flip-flop", scenario.Description)
	assert.Contains(t, scenario.Network, "%a -> out")
	assert.Equal(t, int64(10), scenario.Presses)
	assert.Equal(t, "test-run-42", scenario.RunToken)
	require.NotNil(t, scenario.Expect)
	require.NotNil(t, scenario.Expect.Low)
	assert.Equal(t, int64(25), *scenario.Expect.Low)
	assert.Nil(t, scenario.Expect.High)
	require.Len(t, scenario.Queries, 1)
	assert.Equal(t, "a", scenario.Queries[0].Module)
	assert.Equal(t, "high", scenario.Queries[0].Pulse)
	require.NotNil(t, scenario.Queries[0].Press)
	assert.Equal(t, int64(1), *scenario.Queries[0].Press)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	// Strict decoding catches typos like "querys:".
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Typo in queries"
network: "broadcaster -> a"
presses: 1
expect:
  low: 2
querys:
  - module: a
    pulse: low
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingName(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
description: "Missing name"
network: "broadcaster -> a"
presses: 1
expect:
  low: 2
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenario_MissingDescription(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
network: "broadcaster -> a"
presses: 1
expect:
  low: 2
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}

func TestLoadScenario_MissingNetwork(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "No network anywhere"
presses: 1
expect:
  low: 2
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network or network_file is required")
}

func TestLoadScenario_NetworkFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "networks"), 0755))
	netPath := filepath.Join(dir, "networks", "single.txt")
	require.NoError(t, os.WriteFile(netPath, []byte("broadcaster -> a\n%a -> out\n"), 0644))

	path := writeScenario(t, dir, `
name: test
description: "Network kept in its own file"
network_file: networks/single.txt
presses: 1
expect:
  low: 2
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "broadcaster -> a\n%a -> out\n", scenario.Network)
	assert.Empty(t, scenario.NetworkFile)
}

func TestLoadScenario_NetworkFileNotFound(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Dangling network reference"
network_file: networks/missing.txt
presses: 1
expect:
  low: 2
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read network file")
}

func TestLoadScenario_NetworkAndNetworkFile(t *testing.T) {
	dir := t.TempDir()
	netPath := filepath.Join(dir, "net.txt")
	require.NoError(t, os.WriteFile(netPath, []byte("broadcaster -> a\n"), 0644))

	path := writeScenario(t, dir, `
name: test
description: "Both network forms at once"
network: "broadcaster -> a"
network_file: net.txt
presses: 1
expect:
  low: 2
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestLoadScenario_NegativePresses(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Cannot unpress the button"
network: "broadcaster -> a"
presses: -3
expect:
  low: 2
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presses must be non-negative")
}

func TestLoadScenario_NothingToCheck(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Neither expect nor queries"
network: "broadcaster -> a"
presses: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect or queries is required")
}

func TestLoadScenario_EmptyExpect(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Expect clause with nothing in it"
network: "broadcaster -> a"
presses: 1
expect: {}
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of low, high, product")
}

func TestLoadScenario_QueryMissingModule(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Query without a module"
network: "broadcaster -> a"
presses: 1
queries:
  - pulse: low
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queries[0]: module is required")
}

func TestLoadScenario_QueryBadPulse(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Query with a misspelled pulse"
network: "broadcaster -> a"
presses: 1
queries:
  - module: a
    pulse: hgih
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pulse")
}

func TestLoadScenario_QueryZeroPress(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Presses are 1-indexed"
network: "broadcaster -> a"
presses: 1
queries:
  - module: a
    pulse: low
    press: 0
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "press must be positive")
}
