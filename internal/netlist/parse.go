package netlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ParseError reports an unparseable or structurally invalid network
// description. Line is 1-based; it is 0 for whole-network problems such
// as a missing broadcaster.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid network: %s", e.Reason)
	}
	return fmt.Sprintf("line %d: %s (%q)", e.Line, e.Reason, e.Text)
}

// AsParseError unwraps err as a *ParseError.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

const separator = " -> "

// declaration is one parsed line before output names are resolved.
type declaration struct {
	line    int
	text    string
	name    string
	kind    Kind
	outputs []string
}

// Parse reads a line-oriented network description and builds the module
// graph. Each non-blank line declares one module:
//
//	broadcaster -> a, b, c
//	%flip -> next
//	&conj -> out
//
// Output names that never appear on the left of a declaration all route
// to a single synthetic sink appended after the declared modules. Any
// malformed line aborts parsing with a *ParseError; there is no partial
// result.
func Parse(r io.Reader) (*Network, error) {
	decls, err := scanDeclarations(r)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]ModuleID, len(decls)+1)
	for i, d := range decls {
		if _, dup := byName[d.name]; dup {
			return nil, &ParseError{Line: d.line, Text: d.text, Reason: fmt.Sprintf("duplicate module name %q", d.name)}
		}
		byName[d.name] = ModuleID(i)
	}

	// The sink occupies the slot after the last declared module. Its
	// display name is the first undeclared output name encountered, so
	// traces read the way the description was written.
	sinkID := ModuleID(len(decls))
	net := &Network{
		modules:     make([]Module, len(decls)+1),
		byName:      byName,
		broadcaster: -1,
		sink:        sinkID,
		canonical:   buildCanonical(decls),
	}
	net.modules[sinkID] = Module{ID: sinkID, Kind: KindBroadcaster}

	for i, d := range decls {
		id := ModuleID(i)
		outputs := make([]ModuleID, 0, len(d.outputs))
		seen := make(map[string]bool, len(d.outputs))
		for _, out := range d.outputs {
			if seen[out] {
				return nil, &ParseError{Line: d.line, Text: d.text, Reason: fmt.Sprintf("duplicate output %q", out)}
			}
			seen[out] = true
			target, ok := byName[out]
			if !ok {
				target = sinkID
				byName[out] = sinkID
				if net.modules[sinkID].Name == "" {
					net.modules[sinkID].Name = out
				}
			}
			outputs = append(outputs, target)
		}
		net.modules[id] = Module{ID: id, Name: d.name, Kind: d.kind, Outputs: outputs}
		if d.kind == KindBroadcaster && net.broadcaster < 0 {
			net.broadcaster = id
		}
	}
	if net.modules[sinkID].Name == "" {
		net.modules[sinkID].Name = "sink"
	}
	if net.broadcaster < 0 {
		return nil, &ParseError{Reason: "no broadcaster module declared"}
	}

	// Register input edges in discovery order: declaration order outer,
	// output order inner. Conjunction memory layout depends on this.
	for i := range net.modules {
		for _, target := range net.modules[i].Outputs {
			net.modules[target].Inputs = append(net.modules[target].Inputs, ModuleID(i))
		}
	}

	return net, nil
}

// ParseString is Parse over an in-memory description.
func ParseString(s string) (*Network, error) {
	return Parse(strings.NewReader(s))
}

func scanDeclarations(r io.Reader) ([]declaration, error) {
	var decls []declaration
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		d, err := parseLine(lineNo, text)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read network description: %w", err)
	}
	return decls, nil
}

func parseLine(lineNo int, text string) (declaration, error) {
	d := declaration{line: lineNo, text: text}

	field, rest, found := strings.Cut(text, separator)
	if !found {
		return d, &ParseError{Line: lineNo, Text: text, Reason: fmt.Sprintf("missing %q separator", separator)}
	}

	switch {
	case strings.HasPrefix(field, "%"):
		d.kind = KindFlipFlop
		d.name = field[1:]
	case strings.HasPrefix(field, "&"):
		d.kind = KindConjunction
		d.name = field[1:]
	default:
		d.kind = KindBroadcaster
		d.name = field
		if !startsWithLetter(field) {
			return d, &ParseError{Line: lineNo, Text: text, Reason: fmt.Sprintf("unknown module marker in %q", field)}
		}
	}
	if !validName(d.name) {
		return d, &ParseError{Line: lineNo, Text: text, Reason: fmt.Sprintf("invalid module name %q", d.name)}
	}

	if rest != "" {
		d.outputs = strings.Split(rest, ", ")
		for _, out := range d.outputs {
			if !validName(out) {
				return d, &ParseError{Line: lineNo, Text: text, Reason: fmt.Sprintf("invalid output name %q", out)}
			}
		}
	}
	return d, nil
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}

// validName accepts names that start with a letter and continue with
// letters, digits, or combining marks. Unicode is fine; fingerprinting
// normalizes representation later.
func validName(s string) bool {
	if !startsWithLetter(s) {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}
