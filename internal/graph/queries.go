package graph

import (
	"sort"
	"strings"

	"swiftlens/internal/source"
)

// References returns the symbols the given declaration references
// (outgoing edges), e.g. the types appearing in a variable's initializer.
func (g *Graph) References(id source.SymbolID) []source.SymbolID {
	edges := g.out[id]
	out := make([]source.SymbolID, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.To)
	}
	return out
}

// Referencers returns the symbols that reference the given declaration
// (incoming edges).
func (g *Graph) Referencers(id source.SymbolID) []source.SymbolID {
	edges := g.in[id]
	out := make([]source.SymbolID, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.From)
	}
	return out
}

// Coupling reports the in- and out-degree of a symbol.
func (g *Graph) Coupling(id source.SymbolID) (in, out int) {
	return len(g.in[id]), len(g.out[id])
}

// ConformsToSendable walks conformance and inheritance edges transitively.
// Actors are implicitly Sendable.
func (g *Graph) ConformsToSendable(id source.SymbolID) bool {
	return g.conformsTo(id, "Sendable", make(map[source.SymbolID]struct{}))
}

func (g *Graph) conformsTo(id source.SymbolID, protocol string, seen map[source.SymbolID]struct{}) bool {
	if _, ok := seen[id]; ok {
		return false
	}
	seen[id] = struct{}{}

	sym, ok := g.symbols[id]
	if !ok {
		return false
	}
	if sym.Kind == source.KindActor && protocol == "Sendable" {
		return true
	}
	for _, inherited := range sym.InheritedTypes {
		if inherited == protocol {
			return true
		}
	}
	for _, e := range g.out[id] {
		if e.Kind != source.RefConformance && e.Kind != source.RefInheritance {
			continue
		}
		if target, ok := g.symbols[e.To]; ok && target.Name == protocol {
			return true
		}
		if g.conformsTo(e.To, protocol, seen) {
			return true
		}
	}
	return false
}

// Cycle is one reference cycle among nominal types, with members listed in
// traversal order.
type Cycle struct {
	Names     []string
	Locations []source.Location
}

// FindCycles enumerates reference cycles among nominal types.
func (g *Graph) FindCycles() []Cycle {
	typeIDs := g.typeSymbols()

	var cycles []Cycle
	seenKeys := make(map[string]struct{})
	state := make(map[source.SymbolID]int) // 0 unvisited, 1 on stack, 2 done
	var stack []source.SymbolID

	var visit func(id source.SymbolID)
	visit = func(id source.SymbolID) {
		state[id] = 1
		stack = append(stack, id)

		for _, e := range g.out[id] {
			target, ok := g.symbols[e.To]
			if !ok || !target.Kind.IsType() {
				continue
			}
			switch state[e.To] {
			case 0:
				visit(e.To)
			case 1:
				// Found a back edge; the cycle is the stack suffix.
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] != e.To {
						continue
					}
					cycle := Cycle{}
					for _, sid := range stack[i:] {
						cycle.Names = append(cycle.Names, g.symbols[sid].Name)
						cycle.Locations = append(cycle.Locations, g.symbols[sid].Location)
					}
					key := cycleKey(cycle.Names)
					if _, dup := seenKeys[key]; !dup {
						seenKeys[key] = struct{}{}
						cycles = append(cycles, cycle)
					}
					break
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = 2
	}

	for _, id := range typeIDs {
		if state[id] == 0 {
			visit(id)
		}
	}
	return cycles
}

// cycleKey identifies a cycle by its unordered member set, matching the
// engine's cross-file dedup key.
func cycleKey(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

func (g *Graph) typeSymbols() []source.SymbolID {
	ids := make([]source.SymbolID, 0, len(g.symbols))
	for id, s := range g.symbols {
		if s.Kind.IsType() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// UnreachableSymbols returns declarations with no incoming references that
// do not qualify as entry points. Public surface, @main types, test
// functions and overrides all count as entry points.
func (g *Graph) UnreachableSymbols() []*source.Symbol {
	var out []*source.Symbol
	for id, sym := range g.symbols {
		if len(g.in[id]) > 0 {
			continue
		}
		if g.isEntryPoint(sym) {
			continue
		}
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Location.File != out[j].Location.File {
			return out[i].Location.File < out[j].Location.File
		}
		return out[i].Location.Line < out[j].Location.Line
	})
	return out
}

// isEntryPoint is a heuristic filter: anything plausibly referenced from
// outside the analyzed program must not be reported as dead.
func (g *Graph) isEntryPoint(sym *source.Symbol) bool {
	switch sym.Accessibility {
	case source.AccessPublic, source.AccessOpen:
		return true
	}
	if sym.HasAttribute("@main") || sym.HasAttribute("@objc") || sym.HasAttribute("@UIApplicationMain") {
		return true
	}
	if sym.HasModifier("override") {
		return true
	}
	if sym.Kind == source.KindFunction {
		if sym.Name == "main" || strings.HasPrefix(sym.Name, "test") {
			return true
		}
	}
	// Members ride on their container's liveness; only report containers
	// and free symbols.
	if sym.Parent != "" {
		return true
	}
	if sym.Kind == source.KindExtension || sym.Kind == source.KindEnumCase {
		return true
	}
	return false
}
