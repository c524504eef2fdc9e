package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/roach88/pulsenet/internal/netlist"
)

// loadNetwork reads and parses a network file.
//
// Read failures come back as command errors (exit 2). Parse failures
// come back as the underlying *netlist.ParseError so each command can
// decide how to present them; use reportParseError for the standard
// treatment.
func loadNetwork(path string) (*netlist.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("network file not found: %s", path))
		}
		return nil, WrapExitError(ExitCommandError, "failed to read network file", err)
	}
	return netlist.Parse(bytes.NewReader(data))
}

// parseErrorDetails shapes a parse error for the details field of JSON
// error responses.
func parseErrorDetails(pe *netlist.ParseError) map[string]interface{} {
	details := map[string]interface{}{
		"reason": pe.Reason,
	}
	if pe.Line > 0 {
		details["line"] = pe.Line
	}
	if pe.Text != "" {
		details["text"] = pe.Text
	}
	return details
}

// reportParseError prints err through the formatter and converts it to
// an ExitError with the given exit code. Errors that already carry an
// exit code (unreadable files) pass through untouched.
func reportParseError(formatter *OutputFormatter, err error, exitCode int) error {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr
	}
	if pe, ok := netlist.AsParseError(err); ok {
		_ = formatter.Error(ErrCodeParse, err.Error(), parseErrorDetails(pe))
		return NewExitError(exitCode, err.Error())
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(exitCode, err.Error())
}
