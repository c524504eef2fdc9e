package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	LogLevel string // "debug" | "info" | "warn" | "error"
	Cache    string // default schedule cache path (PULSENET_CACHE)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pulsenet CLI.
//
// Flag defaults come from the environment (PULSENET_FORMAT,
// PULSENET_LOG_LEVEL, PULSENET_CACHE); explicit flags win.
func NewRootCommand() *cobra.Command {
	cfg := LoadConfigFromEnv()
	opts := &RootOptions{
		LogLevel: cfg.LogLevel,
		Cache:    cfg.Cache,
	}

	cmd := &cobra.Command{
		Use:   "pulsenet",
		Short: "pulsenet - pulse propagation network simulator",
		Long: `Simulate pulse propagation networks of flip-flop and conjunction
modules, and analyze their long-run periodic behavior.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewPressesCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the logger commands hand to the engine and analyzer.
// Diagnostics go to w (stderr) so they never corrupt JSON output on
// stdout. --verbose forces debug; otherwise the configured level holds,
// defaulting to warn so normal runs stay quiet.
func newLogger(w io.Writer, opts *RootOptions) *slog.Logger {
	level := parseLogLevel(opts.LogLevel)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
