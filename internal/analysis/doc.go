// Package analysis reconstructs per-module pulse schedules without
// simulating every press.
//
// ARCHITECTURE:
//
// Bottom-Up Reconstruction:
// A module's schedule is derived from its parents' schedules, recursing
// toward the root broadcaster whose schedule is the bootstrap Low at
// offset 0 with period 1. Derivation per kind:
// - Broadcaster: parents' schedules merged unchanged (bootstrap if it
//   has no inputs)
// - Flip-flop: parents' Low events merged, then pulses alternate
//   High, Low, ... in event order; an odd event count doubles the
//   period so the alternation continues correctly across repeats
// - Conjunction: parents' schedules merged with source attribution,
//   then replayed symbolically against the memory rule
//
// Merging extends every parent to the least common multiple of their
// periods first. Extension repeats the event list, shifting each copy
// by one source period, so relative offsets are preserved.
//
// The reconstruction assumes each module's inputs settle within the
// press they fire in; networks built as counters and relays satisfy
// this. Feedback among analyzed modules does not, and is reported as a
// structured cycle error rather than recursing forever.
//
// Results are memoized per analyzer and optionally persisted through a
// cache.ScheduleCache keyed by network fingerprint, so repeated
// analyses of the same graph skip the recursion entirely.
package analysis
