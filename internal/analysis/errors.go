package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/pulsenet/internal/pulse"
)

// AnalysisError represents a failure to reconstruct a schedule.
//
// Analysis errors include:
//   - Feedback cycle: a module's schedule depends on itself
//   - No pulse: the requested pulse never occurs in a module's period
//
// AnalysisError includes structured fields for diagnostics; callers
// branch on Code rather than string matching.
type AnalysisError struct {
	// Code identifies the error category.
	Code AnalysisErrorCode

	// Message is a human-readable description.
	Message string

	// Module is the module the error is about.
	Module string

	// Path is the active analysis chain for cycle errors, root first.
	Path []string

	// Pulse is the requested pulse for no-pulse errors.
	Pulse pulse.Pulse
}

// AnalysisErrorCode categorizes analysis errors.
type AnalysisErrorCode string

const (
	// ErrCodeFeedbackCycle indicates the dependency walk re-entered a
	// module already being analyzed.
	ErrCodeFeedbackCycle AnalysisErrorCode = "FEEDBACK_CYCLE"

	// ErrCodeNoPulse indicates the module never emits the requested
	// pulse within its period.
	ErrCodeNoPulse AnalysisErrorCode = "NO_PULSE"
)

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s (module=%s, path=%s)",
			e.Code, e.Message, e.Module, strings.Join(e.Path, " -> "))
	}
	if e.Module != "" {
		return fmt.Sprintf("%s: %s (module=%s)", e.Code, e.Message, e.Module)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCycleError returns true if the error is a feedback cycle error.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeFeedbackCycle
	}
	return false
}

// IsNoPulseError returns true if the error reports that the requested
// pulse never occurs. Uses errors.As to handle wrapped errors.
func IsNoPulseError(err error) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeNoPulse
	}
	return false
}

// newCycleError creates an AnalysisError for a re-entered module.
// path is copied; it names the active chain from the query root to the
// module that closed the loop.
func newCycleError(module string, path []string) *AnalysisError {
	return &AnalysisError{
		Code:    ErrCodeFeedbackCycle,
		Message: "schedule depends on itself through a feedback loop",
		Module:  module,
		Path:    append([]string(nil), path...),
	}
}

// newNoPulseError creates an AnalysisError for a pulse that never
// occurs within the module's period.
func newNoPulseError(module string, p pulse.Pulse, period int64) *AnalysisError {
	return &AnalysisError{
		Code:    ErrCodeNoPulse,
		Message: fmt.Sprintf("module never emits %s within its %d-press period", p, period),
		Module:  module,
		Pulse:   p,
	}
}
