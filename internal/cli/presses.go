package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/analysis"
	"github.com/roach88/pulsenet/internal/cache"
	"github.com/roach88/pulsenet/internal/pulse"
)

// PressesOptions holds flags for the presses command.
type PressesOptions struct {
	*RootOptions
	Module    string
	Pulse     string
	CachePath string
}

// PressesResult holds the presses command's output.
type PressesResult struct {
	Network string `json:"network"`
	Module  string `json:"module"`
	Pulse   string `json:"pulse"`
	Press   int64  `json:"press"`
}

// NewPressesCommand creates the presses command.
func NewPressesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PressesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "presses <network-file>",
		Short: "Find the first press delivering a pulse to a module",
		Long: `Reconstruct a module's emission schedule from the network structure
and report the first button press on which it emits the given pulse,
without simulating press by press.

Schedules are reconstructed bottom-up from the broadcaster, so the
answer stays cheap even when it lies billions of presses out. Networks
that feed a module's output back toward its own inputs have no
reconstructible schedule; those fail with a feedback cycle error.

Computed schedules can be persisted with --cache (or PULSENET_CACHE)
and reused across invocations for the same network.

Exit codes:
  0 - Analysis completed
  1 - Analysis failure (feedback cycle, pulse never emitted)
  2 - Command error (missing file, malformed network, unknown module)

Examples:
  pulsenet presses network.txt --module output
  pulsenet presses network.txt --module rx --pulse low
  pulsenet presses network.txt --module rx --cache schedules.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresses(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Module, "module", "", "module to analyze (required)")
	_ = cmd.MarkFlagRequired("module")
	cmd.Flags().StringVar(&opts.Pulse, "pulse", "low", "pulse to look for (low|high)")
	cmd.Flags().StringVar(&opts.CachePath, "cache", rootOpts.Cache, "SQLite schedule cache path")

	return cmd
}

func runPresses(opts *PressesOptions, networkFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, err := pulse.Parse(opts.Pulse)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}

	net, err := loadNetwork(networkFile)
	if err != nil {
		return reportParseError(formatter, err, ExitCommandError)
	}

	id, ok := net.ModuleByName(opts.Module)
	if !ok {
		_ = formatter.Error(ErrCodeModule, fmt.Sprintf("module %q not found in network", opts.Module), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("module %q not found", opts.Module))
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.RootOptions)

	analysisOpts := []analysis.Option{analysis.WithLogger(logger)}
	if opts.CachePath != "" {
		store, err := cache.Open(opts.CachePath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open schedule cache", err)
		}
		defer store.Close()
		formatter.VerboseLog("Using schedule cache %s", opts.CachePath)
		analysisOpts = append(analysisOpts, analysis.WithCache(store))
	}

	analyzer := analysis.New(net, analysisOpts...)
	press, err := analyzer.FirstPress(context.Background(), id, p)
	if err != nil {
		return reportAnalysisError(formatter, err)
	}

	result := PressesResult{
		Network: net.Fingerprint(),
		Module:  opts.Module,
		Pulse:   p.String(),
		Press:   press,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s first emits %s on press %d\n", result.Module, result.Pulse, result.Press)
	return nil
}

// reportAnalysisError presents analyzer failures with their structured
// context and maps them to analysis-failure exits.
func reportAnalysisError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	if analysis.IsCycleError(err) || analysis.IsNoPulseError(err) {
		code = ErrCodeAnalysis
	}
	_ = formatter.Error(code, err.Error(), analysisErrorDetails(err))
	return NewExitError(ExitFailure, err.Error())
}

func analysisErrorDetails(err error) map[string]interface{} {
	var ae *analysis.AnalysisError
	if !errors.As(err, &ae) {
		return nil
	}
	details := map[string]interface{}{
		"code":   string(ae.Code),
		"module": ae.Module,
	}
	if len(ae.Path) > 0 {
		details["path"] = ae.Path
	}
	return details
}
