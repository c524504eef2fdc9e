// Package pulse provides the core signal types for pulse networks.
//
// This package contains value types only. All other internal packages
// import pulse; pulse imports nothing internal. This keeps the signal
// vocabulary at the foundation with no circular dependencies.
//
// Key design constraints:
//   - All counters and offsets are int64 - totals overflow 32 bits fast
//   - Press offsets are 0-indexed; user-facing press numbers are 1-indexed
package pulse

import "fmt"

// Pulse is a binary signal exchanged between modules. The zero value is Low.
type Pulse bool

const (
	Low  Pulse = false
	High Pulse = true
)

// Invert returns the opposite pulse.
func (p Pulse) Invert() Pulse {
	return !p
}

func (p Pulse) String() string {
	if p == High {
		return "high"
	}
	return "low"
}

// MarshalText encodes the pulse as "low" or "high".
func (p Pulse) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes "low" or "high". Anything else is an error.
func (p *Pulse) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Parse converts the textual pulse names "low" and "high".
func Parse(s string) (Pulse, error) {
	switch s {
	case "low":
		return Low, nil
	case "high":
		return High, nil
	default:
		return Low, fmt.Errorf("invalid pulse %q (want \"low\" or \"high\")", s)
	}
}
