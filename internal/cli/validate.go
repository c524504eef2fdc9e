package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/netlist"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool        `json:"valid"`
	Fingerprint  string      `json:"fingerprint,omitempty"`
	Modules      int         `json:"modules"`
	Broadcasters int         `json:"broadcasters"`
	FlipFlops    int         `json:"flip_flops"`
	Conjunctions int         `json:"conjunctions"`
	Sink         string      `json:"sink,omitempty"`
	Error        *ParseIssue `json:"error,omitempty"`
}

// ParseIssue is the JSON shape of a network parse failure.
type ParseIssue struct {
	Line   int    `json:"line,omitempty"`
	Text   string `json:"text,omitempty"`
	Reason string `json:"reason"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <network-file>",
		Short: "Validate a network description without simulating",
		Long: `Parse a network description and report its module census without
running any presses.

Checks declaration syntax, the single-broadcaster rule, and duplicate
names. Referencing an undeclared output name is legal; such pulses are
absorbed by a synthetic sink module, reported here when present.

Exit codes:
  0 - Network valid
  1 - Validation failure (malformed description)
  2 - Command error (missing file)

Examples:
  pulsenet validate network.txt
  pulsenet validate network.txt --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, networkFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	net, err := loadNetwork(networkFile)
	if err != nil {
		// Missing or unreadable files are command errors, not
		// validation verdicts.
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			_ = formatter.Error(ErrCodeNotFound, exitErr.Message, nil)
			return exitErr
		}
		if pe, ok := netlist.AsParseError(err); ok {
			return outputValidationFailure(formatter, pe)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	return outputValidateSuccess(formatter, summarizeNetwork(net))
}

// summarizeNetwork builds the module census for a parsed network. The
// synthetic sink is excluded from the counts and reported separately,
// and only when the description actually routes pulses into it.
func summarizeNetwork(net *netlist.Network) ValidationResult {
	result := ValidationResult{
		Valid:       true,
		Fingerprint: net.Fingerprint(),
	}

	sinkID := net.Sink()
	for _, m := range net.Modules() {
		if m.ID == sinkID {
			if len(m.Inputs) > 0 {
				result.Sink = m.Name
			}
			continue
		}
		result.Modules++
		switch m.Kind {
		case netlist.KindFlipFlop:
			result.FlipFlops++
		case netlist.KindConjunction:
			result.Conjunctions++
		default:
			result.Broadcasters++
		}
	}

	return result
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Network valid: %d module(s)\n\n", result.Modules)
	fmt.Fprintf(formatter.Writer, "  flip-flops: %d\n", result.FlipFlops)
	fmt.Fprintf(formatter.Writer, "  conjunctions: %d\n", result.Conjunctions)
	if result.Sink != "" {
		fmt.Fprintf(formatter.Writer, "  sink: %s\n", result.Sink)
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "Fingerprint: %s\n", result.Fingerprint)

	return nil
}

// outputValidationFailure outputs a parse failure as a validation
// verdict.
func outputValidationFailure(formatter *OutputFormatter, pe *netlist.ParseError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid: false,
			Error: &ParseIssue{Line: pe.Line, Text: pe.Text, Reason: pe.Reason},
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeParse,
				Message: pe.Error(),
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed: %s", pe.Reason))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	if pe.Line > 0 {
		fmt.Fprintf(formatter.Writer, "line %d\n", pe.Line)
	}
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeParse, pe.Reason)
	if pe.Text != "" {
		fmt.Fprintf(formatter.Writer, "  %q\n", pe.Text)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed: %s", pe.Reason))
}
