package analysis

import (
	"strings"

	"swiftlens/internal/graph"
	"swiftlens/internal/source"
)

// TypeResolver answers best-effort type questions against the global graph.
// Callers construct a fresh instance per analysis call; it holds no mutable
// state, which keeps it trivially safe under concurrent rule execution.
type TypeResolver struct {
	graph *graph.Graph
}

func NewTypeResolver(g *graph.Graph) *TypeResolver {
	return &TypeResolver{graph: g}
}

// ResolveTypes returns the nominal types a symbol's declaration references,
// e.g. the declared or inferred type of a stored property.
func (r *TypeResolver) ResolveTypes(sym source.Symbol) []*source.Symbol {
	if r.graph == nil {
		return nil
	}
	var out []*source.Symbol
	for _, id := range r.graph.References(sym.ID) {
		target, ok := r.graph.Symbol(id)
		if !ok || !target.Kind.IsType() {
			continue
		}
		out = append(out, target)
	}
	return out
}

// ResolveName finds the nominal type declarations matching a bare name, if
// any. Ambiguous names return every candidate.
func (r *TypeResolver) ResolveName(name, module string) []*source.Symbol {
	if r.graph == nil || name == "" {
		return nil
	}
	var out []*source.Symbol
	for _, s := range r.graph.Lookup(name, module) {
		if s.Kind.IsType() {
			out = append(out, s)
		}
	}
	return out
}

// DeclaredTypeName extracts the annotated type from a property declaration
// line, e.g. "var delegate: SessionDelegate?" -> "SessionDelegate".
func (r *TypeResolver) DeclaredTypeName(declLine string) string {
	colon := strings.Index(declLine, ":")
	if colon < 0 {
		return ""
	}
	rest := strings.TrimSpace(declLine[colon+1:])
	end := len(rest)
	for i, ch := range rest {
		if ch == ' ' || ch == '=' || ch == '{' {
			end = i
			break
		}
	}
	name := strings.TrimSpace(rest[:end])
	name = strings.TrimSuffix(name, "?")
	name = strings.TrimSuffix(name, "!")
	return name
}
