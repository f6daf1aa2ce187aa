// Package graph builds the whole-program symbol and reference graph used
// by cross-file checks (dependency cycles, dead code, Sendable conformance).
package graph

import (
	"strings"

	"swiftlens/internal/source"
)

// Edge is a directed reference between two resolved symbols.
type Edge struct {
	From source.SymbolID
	To   source.SymbolID
	Kind source.ReferenceKind
}

// Graph is the immutable result of a whole-program build. It is constructed
// once per run and shared by every rule that needs cross-file reasoning, so
// all query methods are read-only and safe for concurrent use.
type Graph struct {
	symbols map[source.SymbolID]*source.Symbol
	// nameIndex resolves a bare name to candidate symbol IDs; qualified
	// "Module.Name" keys are indexed alongside.
	nameIndex map[string][]source.SymbolID
	edges     []Edge
	out       map[source.SymbolID][]Edge
	in        map[source.SymbolID][]Edge
	// unresolved keeps references no declaration matched, for diagnostics.
	unresolved []source.SymbolReference
}

// Build extracts every declared symbol and every reference from the given
// files and links references to the declaration they most plausibly denote.
func Build(files []*source.SourceFile) *Graph {
	g := &Graph{
		symbols:   make(map[source.SymbolID]*source.Symbol),
		nameIndex: make(map[string][]source.SymbolID),
		out:       make(map[source.SymbolID][]Edge),
		in:        make(map[source.SymbolID][]Edge),
	}

	for _, f := range files {
		for i := range f.Symbols() {
			g.addSymbol(&f.Symbols()[i])
		}
	}
	for _, f := range files {
		g.linkFile(f)
	}
	g.linkInheritance()
	return g
}

func (g *Graph) addSymbol(sym *source.Symbol) {
	g.symbols[sym.ID] = sym
	g.nameIndex[sym.Name] = append(g.nameIndex[sym.Name], sym.ID)
	if sym.Module != "" {
		key := sym.Module + "." + sym.Name
		g.nameIndex[key] = append(g.nameIndex[key], sym.ID)
	}
}

// linkFile scans one file's references and connects each to its most
// plausible target. A reference inside a declaration becomes an outgoing
// edge of that declaration; file-scope references are dropped.
func (g *Graph) linkFile(f *source.SourceFile) {
	scopes := make(map[string]source.SymbolID, len(f.Symbols()))
	for _, s := range f.Symbols() {
		scopes[s.QualifiedName] = s.ID
	}

	for _, ref := range source.ScanReferences(f) {
		from, ok := g.enclosingSymbol(scopes, ref.Scope)
		if !ok {
			continue
		}
		targets := g.resolveTarget(ref.Name, f.Module())
		if len(targets) == 0 {
			g.unresolved = append(g.unresolved, ref)
			continue
		}
		for _, to := range targets {
			if to == from {
				continue
			}
			g.addEdge(Edge{From: from, To: to, Kind: ref.Kind})
		}
	}
}

// linkInheritance adds conformance/inheritance edges recorded on symbol
// headers, so conformance queries work even in files whose reference scan
// missed the clause.
func (g *Graph) linkInheritance() {
	for id, sym := range g.symbols {
		for _, inherited := range sym.InheritedTypes {
			for _, to := range g.resolveTarget(inherited, sym.Module) {
				if to == id {
					continue
				}
				g.addEdge(Edge{From: id, To: to, Kind: source.RefConformance})
			}
		}
	}
}

func (g *Graph) addEdge(e Edge) {
	for _, existing := range g.out[e.From] {
		if existing.To == e.To && existing.Kind == e.Kind {
			return
		}
	}
	g.edges = append(g.edges, e)
	g.out[e.From] = append(g.out[e.From], e)
	g.in[e.To] = append(g.in[e.To], e)
}

// enclosingSymbol maps a reference's scope to the declaration owning it,
// walking outward through nesting until a known declaration matches.
func (g *Graph) enclosingSymbol(scopes map[string]source.SymbolID, scope string) (source.SymbolID, bool) {
	for scope != "" {
		if id, ok := scopes[scope]; ok {
			return id, true
		}
		dot := strings.LastIndex(scope, ".")
		if dot < 0 {
			break
		}
		scope = scope[:dot]
	}
	return "", false
}

// resolveTarget finds candidate declarations for a referenced name,
// preferring a module-local match over a bare-name match.
func (g *Graph) resolveTarget(name, module string) []source.SymbolID {
	if name == "" {
		return nil
	}
	if module != "" {
		if ids, ok := g.nameIndex[module+"."+name]; ok {
			return ids
		}
	}
	if ids, ok := g.nameIndex[name]; ok {
		return ids
	}
	// Qualified spellings like "Networking.Client" resolve by last segment.
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		if ids, ok := g.nameIndex[name[dot+1:]]; ok {
			return ids
		}
	}
	return nil
}

// Symbol returns a declaration by ID.
func (g *Graph) Symbol(id source.SymbolID) (*source.Symbol, bool) {
	s, ok := g.symbols[id]
	return s, ok
}

// Symbols returns every declaration in the program.
func (g *Graph) Symbols() []*source.Symbol {
	out := make([]*source.Symbol, 0, len(g.symbols))
	for _, s := range g.symbols {
		out = append(out, s)
	}
	return out
}

// Lookup resolves a bare name within a module, mirroring the linker's own
// resolution order.
func (g *Graph) Lookup(name, module string) []*source.Symbol {
	var out []*source.Symbol
	for _, id := range g.resolveTarget(name, module) {
		if s, ok := g.symbols[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Unresolved returns references no declaration matched.
func (g *Graph) Unresolved() []source.SymbolReference {
	return g.unresolved
}

// EdgeCount reports the number of resolved reference edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
