package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("PULSENET_FORMAT", "")
	t.Setenv("PULSENET_LOG_LEVEL", "")
	t.Setenv("PULSENET_CACHE", "")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Cache)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("PULSENET_FORMAT", "json")
	t.Setenv("PULSENET_LOG_LEVEL", "debug")
	t.Setenv("PULSENET_CACHE", "/tmp/schedules.db")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/schedules.db", cfg.Cache)
}

func TestRootCommandEnvFormat(t *testing.T) {
	t.Setenv("PULSENET_FORMAT", "json")

	cmd := NewRootCommand()
	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "json", formatFlag.DefValue)
}

func TestPressesCommandEnvCache(t *testing.T) {
	t.Setenv("PULSENET_CACHE", "/tmp/pulse.db")

	cmd := NewRootCommand()
	pressesCmd, _, err := cmd.Find([]string{"presses"})
	require.NoError(t, err)

	cacheFlag := pressesCmd.Flags().Lookup("cache")
	require.NotNil(t, cacheFlag)
	assert.Equal(t, "/tmp/pulse.db", cacheFlag.DefValue)
}
