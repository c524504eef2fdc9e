// Package netlist parses pulse network descriptions and exposes the
// resulting module graph.
//
// The graph is immutable once built. Simulation and analysis layer their
// own mutable state over it; nothing here changes after Parse returns.
package netlist

// ModuleID indexes a module inside its Network. IDs are dense and
// assigned in declaration order, so they double as arena offsets.
type ModuleID int

// Kind selects a module's behavioral variant. The set is closed: every
// module is exactly one of these three.
type Kind int

const (
	KindBroadcaster Kind = iota
	KindFlipFlop
	KindConjunction
)

func (k Kind) String() string {
	switch k {
	case KindFlipFlop:
		return "flip-flop"
	case KindConjunction:
		return "conjunction"
	default:
		return "broadcaster"
	}
}

// Marker is the declaration prefix for the kind: "%" for flip-flops,
// "&" for conjunctions, empty for broadcasters.
func (k Kind) Marker() string {
	switch k {
	case KindFlipFlop:
		return "%"
	case KindConjunction:
		return "&"
	default:
		return ""
	}
}

// Module is one node of the network graph. Outputs preserve declaration
// order; Inputs preserve discovery order (the order edges are seen while
// walking declarations top to bottom). Both orders are load-bearing for
// deterministic simulation and analysis.
type Module struct {
	ID      ModuleID
	Name    string
	Kind    Kind
	Outputs []ModuleID
	Inputs  []ModuleID
}

// Network is the parsed module graph plus name lookup. The final module
// is always a synthetic sink that absorbs pulses sent to names the
// description references but never declares.
type Network struct {
	modules     []Module
	byName      map[string]ModuleID
	broadcaster ModuleID
	sink        ModuleID
	canonical   string
}

// Len returns the module count, including the synthetic sink.
func (n *Network) Len() int {
	return len(n.modules)
}

// Module returns the module with the given ID. The returned value shares
// its Outputs and Inputs slices with the network; callers must not
// mutate them.
func (n *Network) Module(id ModuleID) Module {
	return n.modules[id]
}

// Modules returns all modules in ID order. Read-only, same sharing
// caveat as Module.
func (n *Network) Modules() []Module {
	return n.modules
}

// ModuleByName resolves a declared module name, or an undeclared name
// the description routes pulses to (those all resolve to the sink).
func (n *Network) ModuleByName(name string) (ModuleID, bool) {
	id, ok := n.byName[name]
	return id, ok
}

// Broadcaster returns the ID of the root broadcaster, the injection
// point for button presses. Parse guarantees one exists.
func (n *Network) Broadcaster() ModuleID {
	return n.broadcaster
}

// Sink returns the ID of the synthetic sink module.
func (n *Network) Sink() ModuleID {
	return n.sink
}
