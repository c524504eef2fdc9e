package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/pulse"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Presses int64
}

// TraceResult holds the trace command's output.
type TraceResult struct {
	Network  string              `json:"network"`
	RunToken string              `json:"run_token"`
	Presses  int64               `json:"presses"`
	Counter  pulse.Counter       `json:"counter"`
	Product  int64               `json:"product"`
	Events   []engine.TraceEvent `json:"events"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <network-file>",
		Short: "Simulate presses and print the full pulse transcript",
		Long: `Simulate button presses with tracing enabled and print every
delivered pulse in delivery order.

Each press starts with the bootstrap low pulse, rendered as the
broadcaster sending to itself. Traced runs simulate every press with
no shortcuts, so keep --presses small; the transcript grows with every
delivered pulse.

Exit codes:
  0 - Trace completed
  2 - Command error (missing file, malformed network, bad flags)

Examples:
  pulsenet trace network.txt
  pulsenet trace network.txt --presses 4
  pulsenet trace network.txt --format json > transcript.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Presses, "presses", 1, "number of button presses to trace")

	return cmd
}

func runTrace(opts *TraceOptions, networkFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if opts.Presses < 0 {
		return NewExitError(ExitCommandError, "presses must be non-negative")
	}

	net, err := loadNetwork(networkFile)
	if err != nil {
		return reportParseError(formatter, err, ExitCommandError)
	}

	formatter.VerboseLog("Loaded %d module(s) from %s", net.Len()-1, networkFile)

	trace := engine.NewTrace()
	sim := engine.NewSimulator(net,
		engine.WithTrace(trace),
		engine.WithLogger(newLogger(cmd.ErrOrStderr(), opts.RootOptions)),
	)
	counter := sim.Run(opts.Presses)

	result := TraceResult{
		Network:  net.Fingerprint(),
		RunToken: sim.RunToken(),
		Presses:  opts.Presses,
		Counter:  counter,
		Product:  counter.Product(),
		Events:   trace.Events(),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "run: %s\n", result.RunToken)

	var current int64
	for _, e := range result.Events {
		if e.Press != current {
			current = e.Press
			fmt.Fprintf(formatter.Writer, "\npress %d:\n", current)
		}
		fmt.Fprintf(formatter.Writer, "  %s\n", e)
	}

	fmt.Fprintf(formatter.Writer, "\nPulses: %d low, %d high (product %d)\n",
		counter.Low, counter.High, counter.Product())

	return nil
}
